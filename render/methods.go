package render

// HostMethods lists every method the bridge calls on the host rendering
// context. All of them are resolved when the bridge is created.
var HostMethods = []string{
	"activeTexture",
	"attachShader",
	"bindAttribLocation",
	"bindBuffer",
	"bindFramebuffer",
	"bindTexture",
	"blendFuncSeparate",
	"bufferData",
	"bufferSubData",
	"checkFramebufferStatus",
	"clear",
	"clearColor",
	"compileShader",
	"createBuffer",
	"createFramebuffer",
	"createProgram",
	"createShader",
	"createTexture",
	"deleteBuffer",
	"deleteFramebuffer",
	"deleteProgram",
	"deleteShader",
	"deleteTexture",
	"detachShader",
	"disable",
	"disableVertexAttribArray",
	"drawArrays",
	"enable",
	"enableVertexAttribArray",
	"finish",
	"flush",
	"framebufferTexture2D",
	"getAttribLocation",
	"getError",
	"getFramebufferAttachmentParameter",
	"getParameter",
	"getProgramInfoLog",
	"getProgramParameter",
	"getShaderInfoLog",
	"getShaderParameter",
	"getUniformLocation",
	"linkProgram",
	"pixelStorei",
	"readPixels",
	"scissor",
	"shaderSource",
	"texImage2D",
	"texParameteri",
	"texSubImage2D",
	"uniform1f",
	"uniform1i",
	"uniform2f",
	"uniform3f",
	"uniform4f",
	"uniformMatrix2fv",
	"uniformMatrix3fv",
	"uniformMatrix4fv",
	"useProgram",
	"vertexAttribPointer",
	"viewport",
}
