package viewport

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
)

const vertexSrc = `
#version 410 core

layout (location = 0) in vec3 aPos;
layout (location = 1) in vec3 aNormal;

uniform mat4 uModel;
uniform mat4 uView;
uniform mat4 uProjection;

out vec3 vNormal;
out vec3 vWorld;

void main() {
	vec4 world = uModel * vec4(aPos, 1.0);
	vWorld = world.xyz;
	vNormal = mat3(uModel) * aNormal;
	gl_Position = uProjection * uView * world;
}
`

// Blinn-Phong approximation of the metal/rough surface.
const fragmentSrc = `
#version 410 core

in vec3 vNormal;
in vec3 vWorld;

uniform vec3 uColor;
uniform float uRoughness;
uniform float uMetalness;
uniform float uOpacity;
uniform vec3 uEye;
uniform int uFlat;

out vec4 FragColor;

void main() {
	if (uFlat == 1) {
		FragColor = vec4(uColor, uOpacity);
		return;
	}
	vec3 n = normalize(vNormal);
	vec3 l = normalize(vec3(0.5, 1.0, 0.8));
	vec3 v = normalize(uEye - vWorld);
	vec3 h = normalize(l + v);

	float diff = max(dot(n, l), 0.0);
	float shininess = mix(128.0, 4.0, uRoughness);
	float spec = pow(max(dot(n, h), 0.0), shininess) * (1.0 - uRoughness * 0.8);

	vec3 specColor = mix(vec3(0.04), uColor, uMetalness);
	vec3 diffuse = uColor * (1.0 - uMetalness) * diff;
	vec3 ambient = uColor * 0.15;
	FragColor = vec4(ambient + diffuse + specColor * spec, uOpacity);
}
`

// compileProgram compiles vertex and fragment shaders and links them into a program.
func compileProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	vert, err := compileShader(vertexSrc, gl.VERTEX_SHADER, "vertex")
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(vert)

	frag, err := compileShader(fragmentSrc, gl.FRAGMENT_SHADER, "fragment")
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(frag)

	program := gl.CreateProgram()
	gl.AttachShader(program, vert)
	gl.AttachShader(program, frag)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
		log := make([]byte, logLen+1)
		gl.GetProgramInfoLog(program, logLen, nil, &log[0])
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("link: %s", string(log))
	}
	return program, nil
}

func compileShader(source string, shaderType uint32, name string) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csource, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csource, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := make([]byte, logLen+1)
		gl.GetShaderInfoLog(shader, logLen, nil, &log[0])
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("%s shader: %s", name, string(log))
	}
	return shader, nil
}

type uniforms struct {
	model, view, projection int32
	color, roughness        int32
	metalness, opacity      int32
	eye, flat               int32
}

func locate(program uint32) uniforms {
	loc := func(name string) int32 {
		return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
	}
	return uniforms{
		model:      loc("uModel"),
		view:       loc("uView"),
		projection: loc("uProjection"),
		color:      loc("uColor"),
		roughness:  loc("uRoughness"),
		metalness:  loc("uMetalness"),
		opacity:    loc("uOpacity"),
		eye:        loc("uEye"),
		flat:       loc("uFlat"),
	}
}
