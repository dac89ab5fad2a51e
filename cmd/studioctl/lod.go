package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Faultbox/astramesh/internal/lod"
	"github.com/Faultbox/astramesh/internal/scene"
)

var (
	lodResolution int
	lodSimplify   float64
	lodColor      string
)

var lodCmd = &cobra.Command{
	Use:   "lod",
	Short: "Print the LOD levels derived for a mesh",
	Long:  `Derives the three distance levels and the wireframe overlay for the given subdivision and simplification.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := loadConfig(); err != nil {
			return err
		}
		mesh := scene.Default().Mesh
		mesh.Resolution = scene.ClampResolution(lodResolution)
		mesh.Simplify = scene.ClampSimplify(lodSimplify)
		if lodColor != "" {
			mesh.Material = scene.MaterialPatch{Color: &lodColor}.Apply(mesh.Material)
		}
		desc := lod.Synthesize(lod.ParamsOf(mesh))
		printDescription(cmd.OutOrStdout(), &desc)
		return nil
	},
}

func init() {
	lodCmd.Flags().IntVarP(&lodResolution, "resolution", "r", 2, "Base subdivision level")
	lodCmd.Flags().Float64VarP(&lodSimplify, "simplify", "s", 0, "Simplification ratio in [0,1]")
	lodCmd.Flags().StringVar(&lodColor, "color", "", "Surface color (#rrggbb)")
	rootCmd.AddCommand(lodCmd)
}

func printDescription(w io.Writer, d *lod.Description) {
	fmt.Fprintf(w, "surface  color=%s roughness=%.2f metalness=%.2f\n",
		d.Surface.Color, d.Surface.Roughness, d.Surface.Metalness)
	for i, l := range d.Levels {
		faces := 0
		if l.Mesh != nil {
			faces = l.Mesh.Faces()
		}
		fmt.Fprintf(w, "level %d  distance=%-4g resolution=%d faces=%d\n", i, l.Distance, l.Resolution, faces)
	}
	if o := d.Overlay; o != nil {
		fmt.Fprintf(w, "overlay  resolution=%d radius=%.2f color=%s opacity=%.1f wireframe=%t faces=%d\n",
			o.Resolution, o.Radius, o.Color, o.Opacity, o.Wireframe, o.Mesh.Faces())
	} else {
		fmt.Fprintln(w, "overlay  none")
	}
}
