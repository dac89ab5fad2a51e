package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Faultbox/astramesh/internal/export"
	"github.com/Faultbox/astramesh/internal/scene"
	"github.com/Faultbox/astramesh/internal/store"
)

var (
	exportFormat     string
	exportOut        string
	exportPolyCount  int
	exportTexture    int
	exportResolution int
	exportSimplify   float64
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write an export manifest for a scene",
	Long: `Builds the default scene with the given mesh and export settings, dispatches an
export request and writes the manifest the export collaborator receives.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		out := exportOut
		if out == "" {
			out = cfg.Export.OutputDir
		}

		writer := export.NewManifestWriter(out)
		var failed error
		s := newStore(cfg, store.WithExporter(export.Func(func(ctx context.Context, req export.Request) error {
			failed = writer.Export(ctx, req)
			return failed
		})))

		format := scene.Format(exportFormat)
		if !format.Valid() {
			return fmt.Errorf("unknown format %q", exportFormat)
		}
		patch := scene.ExportPatch{Format: &format}
		if cmd.Flags().Changed("poly-count") {
			patch.PolyCount = &exportPolyCount
		}
		if cmd.Flags().Changed("texture") {
			patch.TexResolution = &exportTexture
		}
		s.SetExport(patch)
		s.SetMeshResolution(exportResolution)
		s.SetSimplify(exportSimplify)

		s.RequestExport()
		s.Queue().Advance(0)
		if failed != nil {
			return failed
		}
		fmt.Fprintln(cmd.OutOrStdout(), writer.Last())
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", string(scene.FormatGLTF), "Export format: gltf, fbx, obj or stl")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "Output directory (default from config)")
	exportCmd.Flags().IntVar(&exportPolyCount, "poly-count", 100, "Polygon target in thousands")
	exportCmd.Flags().IntVar(&exportTexture, "texture", 2048, "Texture resolution")
	exportCmd.Flags().IntVarP(&exportResolution, "resolution", "r", 2, "Base subdivision level")
	exportCmd.Flags().Float64VarP(&exportSimplify, "simplify", "s", 0, "Simplification ratio in [0,1]")
	rootCmd.AddCommand(exportCmd)
}
