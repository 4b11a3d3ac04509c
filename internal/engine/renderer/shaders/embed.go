// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// ObjectVertexShader transforms object vertices and passes normals through.
//
//go:embed object.vert
var ObjectVertexShader string

// ObjectFragmentShader draws flat-colored, optionally lit, geometry.
//
//go:embed object.frag
var ObjectFragmentShader string
