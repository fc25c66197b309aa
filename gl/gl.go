// Package gl defines the scalar types and enumerants of the GL subset the
// engine calls through the bridge.
//
// The engine runs against a 32-bit address space, so pointer arguments are
// offsets into engine memory. Ptr 0 is NULL.
package gl

type (
	Enum     uint32
	Bitfield uint32
	Boolean  uint8
	Int      int32
	Uint     uint32
	Sizei    int32
	Float    float32
	Clampf   float32
	Intptr   int32
	Sizeiptr int32
	Ptr      uint32
)

const (
	FALSE Boolean = 0
	TRUE  Boolean = 1
)

// Errors
const (
	NO_ERROR                      Enum = 0
	INVALID_ENUM                  Enum = 0x0500
	INVALID_VALUE                 Enum = 0x0501
	INVALID_OPERATION             Enum = 0x0502
	OUT_OF_MEMORY                 Enum = 0x0505
	INVALID_FRAMEBUFFER_OPERATION Enum = 0x0506
)

// Clear masks
const (
	DEPTH_BUFFER_BIT   Bitfield = 0x00000100
	STENCIL_BUFFER_BIT Bitfield = 0x00000400
	COLOR_BUFFER_BIT   Bitfield = 0x00004000
)

// Primitives
const (
	POINTS         Enum = 0x0000
	LINES          Enum = 0x0001
	TRIANGLES      Enum = 0x0004
	TRIANGLE_STRIP Enum = 0x0005
	TRIANGLE_FAN   Enum = 0x0006
)

// Blending and capabilities
const (
	ZERO                Enum = 0
	ONE                 Enum = 1
	SRC_ALPHA           Enum = 0x0302
	ONE_MINUS_SRC_ALPHA Enum = 0x0303
	CULL_FACE           Enum = 0x0B44
	DEPTH_TEST          Enum = 0x0B71
	DITHER              Enum = 0x0BD0
	BLEND               Enum = 0x0BE2
	SCISSOR_TEST        Enum = 0x0C11
)

// State queries
const (
	VIEWPORT                     Enum = 0x0BA2
	UNPACK_ROW_LENGTH            Enum = 0x0CF2
	UNPACK_ALIGNMENT             Enum = 0x0CF5
	PACK_ROW_LENGTH              Enum = 0x0D02
	PACK_ALIGNMENT               Enum = 0x0D05
	MAX_TEXTURE_SIZE             Enum = 0x0D33
	TEXTURE_BINDING_2D           Enum = 0x8069
	ACTIVE_TEXTURE               Enum = 0x84E0
	ARRAY_BUFFER_BINDING         Enum = 0x8894
	ELEMENT_ARRAY_BUFFER_BINDING Enum = 0x8895
	PIXEL_PACK_BUFFER_BINDING    Enum = 0x88ED
	PIXEL_UNPACK_BUFFER_BINDING  Enum = 0x88EF
	CURRENT_PROGRAM              Enum = 0x8B8D
	FRAMEBUFFER_BINDING          Enum = 0x8CA6
)

// Strings
const (
	VENDOR                   Enum = 0x1F00
	RENDERER                 Enum = 0x1F01
	VERSION                  Enum = 0x1F02
	EXTENSIONS               Enum = 0x1F03
	SHADING_LANGUAGE_VERSION Enum = 0x8B8C
)

// Data types
const (
	BYTE                   Enum = 0x1400
	UNSIGNED_BYTE          Enum = 0x1401
	SHORT                  Enum = 0x1402
	UNSIGNED_SHORT         Enum = 0x1403
	INT                    Enum = 0x1404
	UNSIGNED_INT           Enum = 0x1405
	FLOAT                  Enum = 0x1406
	HALF_FLOAT             Enum = 0x140B
	UNSIGNED_SHORT_4_4_4_4 Enum = 0x8033
	UNSIGNED_SHORT_5_5_5_1 Enum = 0x8034
	UNSIGNED_SHORT_5_6_5   Enum = 0x8363
	UNSIGNED_INT_24_8      Enum = 0x84FA
)

// Pixel formats
const (
	DEPTH_COMPONENT Enum = 0x1902
	RED             Enum = 0x1903
	ALPHA           Enum = 0x1906
	RGB             Enum = 0x1907
	RGBA            Enum = 0x1908
	LUMINANCE       Enum = 0x1909
	LUMINANCE_ALPHA Enum = 0x190A
	RG              Enum = 0x8227
	DEPTH_STENCIL   Enum = 0x84F9
)

// Textures
const (
	TEXTURE_2D         Enum = 0x0DE1
	NEAREST            Enum = 0x2600
	LINEAR             Enum = 0x2601
	TEXTURE_MAG_FILTER Enum = 0x2800
	TEXTURE_MIN_FILTER Enum = 0x2801
	TEXTURE_WRAP_S     Enum = 0x2802
	TEXTURE_WRAP_T     Enum = 0x2803
	CLAMP_TO_EDGE      Enum = 0x812F
	TEXTURE0           Enum = 0x84C0
)

// Buffers
const (
	ARRAY_BUFFER         Enum = 0x8892
	ELEMENT_ARRAY_BUFFER Enum = 0x8893
	STREAM_DRAW          Enum = 0x88E0
	STATIC_DRAW          Enum = 0x88E4
	DYNAMIC_DRAW         Enum = 0x88E8
	PIXEL_PACK_BUFFER    Enum = 0x88EB
	PIXEL_UNPACK_BUFFER  Enum = 0x88EC
)

// Shaders and programs
const (
	SHADER_TYPE          Enum = 0x8B4F
	FRAGMENT_SHADER      Enum = 0x8B30
	VERTEX_SHADER        Enum = 0x8B31
	DELETE_STATUS        Enum = 0x8B80
	COMPILE_STATUS       Enum = 0x8B81
	LINK_STATUS          Enum = 0x8B82
	VALIDATE_STATUS      Enum = 0x8B83
	INFO_LOG_LENGTH      Enum = 0x8B84
	ATTACHED_SHADERS     Enum = 0x8B85
	ACTIVE_UNIFORMS      Enum = 0x8B86
	SHADER_SOURCE_LENGTH Enum = 0x8B88
	ACTIVE_ATTRIBUTES    Enum = 0x8B89
)

// Framebuffers
const (
	FRAMEBUFFER_ATTACHMENT_OBJECT_TYPE Enum = 0x8CD0
	FRAMEBUFFER_ATTACHMENT_OBJECT_NAME Enum = 0x8CD1
	FRAMEBUFFER_COMPLETE               Enum = 0x8CD5
	COLOR_ATTACHMENT0                  Enum = 0x8CE0
	FRAMEBUFFER                        Enum = 0x8D40
)
