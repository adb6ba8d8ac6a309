package demo

// clipVS passes 2D clip-space positions straight through.
const clipVS = `#version 300 es
// a_position receives clip-space points from the vertex buffer.
in vec4 a_position;

void main() {
  gl_Position = a_position;
}
`

// pixelVS converts pixel coordinates (origin top-left) to clip space.
const pixelVS = `#version 300 es
in vec2 a_position;

uniform vec2 u_resolution;

void main() {
  // pixels -> 0..1 -> 0..2 -> -1..1
  vec2 clipSpace = ((a_position / u_resolution) * 2.0) - 1.0;

  gl_Position = vec4(clipSpace * vec2(1, -1), 0, 1);
}
`

// translateVS is pixelVS with a pixel offset added to every vertex.
const translateVS = `#version 300 es
in vec2 a_position;

uniform vec2 u_resolution;
uniform vec2 u_translation;

void main() {
  vec2 position = a_position + u_translation;
  vec2 clipSpace = ((position / u_resolution) * 2.0) - 1.0;

  gl_Position = vec4(clipSpace * vec2(1, -1), 0, 1);
}
`

// pinkFS paints every fragment the same constant pink.
const pinkFS = `#version 300 es
precision highp float;

out vec4 o_color;

void main() {
  o_color = vec4(1, 0.3, 0.5, 1);
}
`

// colorFS paints every fragment u_color.
const colorFS = `#version 300 es
precision highp float;

uniform vec4 u_color;

out vec4 o_color;

void main() {
  o_color = u_color;
}
`
