// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package driver

// Device is the main interface to an underlying driver
// implementation.
// It is used to create other types. Commands are issued
// through its immediate Context.
// A Device is obtained from a call to Driver.Open.
type Device interface {
	// Driver returns the Driver that owns the Device.
	Driver() Driver

	// Caps returns the device capabilities.
	// They are immutable for the lifetime of the Device.
	Caps() Caps

	// ImmediateContext returns the device's immediate
	// context.
	// There is exactly one per Device, and it is valid
	// until the driver is closed.
	ImmediateContext() Context

	// NewImage creates a new 2D image.
	// data, if not nil, provides the initial contents of
	// mip level 0. It is required for MImmutable images.
	NewImage(desc *ImageDesc, data *InitData) (Image, error)

	// NewRenderTargetView creates a new render target view.
	// img must have been created with URenderTarget.
	NewRenderTargetView(img Image, desc *ViewDesc) (View, error)

	// NewDepthStencilView creates a new depth/stencil view.
	// img must have been created with UDepthStencil.
	NewDepthStencilView(img Image, desc *ViewDesc) (View, error)

	// NewShaderResourceView creates a new shader resource
	// view.
	// img must have been created with UShaderResource.
	NewShaderResourceView(img Image, desc *ViewDesc) (View, error)

	// NewVertexShader creates a new vertex shader from
	// precompiled bytecode.
	NewVertexShader(code []byte) (Shader, error)

	// NewPixelShader creates a new pixel shader from
	// precompiled bytecode.
	NewPixelShader(code []byte) (Shader, error)

	// NewInputLayout creates a new input layout.
	// vsCode is the bytecode of a vertex shader whose
	// input signature matches elems.
	NewInputLayout(elems []InputElement, vsCode []byte) (InputLayout, error)

	// NewBuffer creates a new buffer.
	// data, if not nil, provides the initial contents
	// and must not be longer than desc.Size.
	NewBuffer(desc *BufferDesc, data []byte) (Buffer, error)

	// NewSampler creates a new sampler.
	NewSampler(desc *SamplerDesc) (Sampler, error)

	// NewRasterState creates a new rasterizer state.
	NewRasterState(desc *RasterDesc) (RasterState, error)

	// NewBlendState creates a new blend state.
	NewBlendState(desc *BlendDesc) (BlendState, error)

	// MultisampleQuality returns the number of quality
	// levels supported for images of format pf with the
	// given sample count.
	// Zero means that the combination is not supported.
	MultisampleQuality(pf PixelFmt, samples int) (int, error)
}

// Destroyer is the interface that wraps the Destroy method.
// Types that implement this interface may allocate external
// memory that is not managed by GC, so Destroy must be
// called explicitly to ensure such memory is deallocated.
// Native objects are reference counted: Destroy releases
// one reference, and the object is freed when its last
// reference is released.
type Destroyer interface {
	Destroy()
}

// LeakReporter is an optional interface that a Device may
// implement to report objects that are still alive.
type LeakReporter interface {
	// LiveObjects returns a description of every object
	// that has not been released.
	LiveObjects() []string
}

// DriverType identifies the kind of implementation behind
// a Device.
type DriverType int

// Driver types.
const (
	DTUnknown DriverType = iota
	DTHardware
	DTWarp
	DTReference
)

var dtNames = [...]string{"unknown", "hardware", "warp", "reference"}

// String implements fmt.Stringer.
func (t DriverType) String() string {
	if t < 0 || int(t) >= len(dtNames) {
		return dtNames[0]
	}
	return dtNames[t]
}

// FeatureLevel is the feature level of a Device.
type FeatureLevel int

// Feature levels.
const (
	FLUnknown FeatureLevel = iota
	FL10_0
	FL10_1
	FL11_0
)

var flNames = [...]string{"unknown", "10.0", "10.1", "11.0"}

// String implements fmt.Stringer.
func (l FeatureLevel) String() string {
	if l < 0 || int(l) >= len(flNames) {
		return flNames[0]
	}
	return flNames[l]
}

// Caps describes device capabilities and implementation
// limits.
type Caps struct {
	Type  DriverType
	Level FeatureLevel

	// Maximum width and height of 2D images.
	MaxImage2D int
	// Maximum number of simultaneous render targets.
	MaxTargets int
	// Maximum number of viewports.
	MaxViewports int
	// Maximum number of vertex buffer slots.
	MaxVertexBufs int
	// Maximum number of constant buffer slots per stage.
	MaxConstBufs int
	// Maximum number of shader resource slots per stage.
	MaxResources int
	// Maximum number of sampler slots per stage.
	MaxSamplers int
}

// Usage is a mask indicating how a resource is bound to
// the pipeline.
type Usage int

// Usage flags for Buffer and Image.
const (
	// The resource can provide vertex data for draw calls.
	// Valid only for Buffer.
	UVertexBuf Usage = 1 << iota
	// The resource can provide index data for draw calls.
	// Valid only for Buffer.
	UIndexBuf
	// The resource can provide constant data for shaders.
	// Valid only for Buffer.
	UConstBuf
	// The resource can be read in shaders through a view.
	UShaderResource
	// The resource can be used as render target.
	// Valid only for Image.
	URenderTarget
	// The resource can be used as depth/stencil target.
	// Valid only for Image.
	UDepthStencil
	// The resource is not bound to the pipeline.
	UNone Usage = 0
)

// MemUsage describes the expected CPU/GPU access pattern
// of a resource.
type MemUsage int

// Memory usages.
const (
	// GPU read/write. Updated with Context.Update.
	MDefault MemUsage = iota
	// GPU read only. Contents given at creation.
	MImmutable
	// GPU read, CPU write. Updated with Context.Map.
	MDynamic
	// CPU readable/writable copy target.
	MStaging
)

// CPUAccess is a mask indicating CPU access to a resource.
type CPUAccess int

// CPU access flags.
const (
	CPURead CPUAccess = 1 << iota
	CPUWrite
)

// Resource is the interface that defines a GPU resource,
// either a Buffer or an Image.
type Resource interface {
	Destroyer

	// Dim returns the dimension of the resource.
	Dim() ResourceDim
}

// ResourceDim is the type of a resource dimension.
type ResourceDim int

// Resource dimensions.
const (
	RBuffer ResourceDim = iota
	RImage2D
)

// BufferDesc describes a Buffer.
type BufferDesc struct {
	// Size in bytes. Must be a multiple of 16 for
	// UConstBuf.
	Size   int
	Usage  Usage
	Mem    MemUsage
	CPU    CPUAccess
	Stride int
}

// Buffer is the interface that defines a GPU buffer.
// The size of the buffer is fixed. When a larger buffer
// is necessary, a new one must be created and the data
// must be copied explicitly.
type Buffer interface {
	Resource

	// Desc returns the description used to create the
	// buffer.
	Desc() BufferDesc
}

// ImageDesc describes an Image.
type ImageDesc struct {
	Width   int
	Height  int
	Levels  int
	Layers  int
	Format  PixelFmt
	Samples int
	Quality int
	Usage   Usage
	Mem     MemUsage
	CPU     CPUAccess
}

// InitData is the initial data of an image subresource.
type InitData struct {
	Data []byte
	// RowPitch is the distance in bytes between rows.
	RowPitch int
}

// Image is the interface that defines a GPU image.
type Image interface {
	Resource

	// Desc returns the description used to create the
	// image.
	Desc() ImageDesc
}

// ViewKind is the kind of a View.
type ViewKind int

// View kinds.
const (
	KRenderTarget ViewKind = iota
	KDepthStencil
	KShaderResource
)

// ViewDim is the dimension of a View.
type ViewDim int

// View dimensions.
const (
	VUnknown ViewDim = iota
	V2D
	V2DMS
)

// ViewDesc describes a View.
type ViewDesc struct {
	// Format of the view. FUnknown means the format of
	// the image.
	Format PixelFmt
	Dim    ViewDim
	// First mip level and level count. Unused for
	// V2DMS. Only one level is valid for targets.
	Level  int
	Levels int
}

// View is the interface that defines a typed view of an
// Image resource.
// A View holds a reference to its Image.
type View interface {
	Destroyer

	// Kind returns the kind of the view.
	Kind() ViewKind

	// Image returns the viewed image.
	Image() Image

	// Desc returns the view description.
	Desc() ViewDesc
}

// Stage is the type of a programmable pipeline stage.
type Stage int

// Programmable stages.
const (
	SVertex Stage = iota
	SPixel
)

// Shader is the interface that defines a shader program
// for a single stage.
type Shader interface {
	Destroyer

	// Stage returns the shader's stage.
	Stage() Stage
}

// VertexFmt describes the format of a vertex input.
type VertexFmt int

// Vertex formats.
const (
	Float32 VertexFmt = iota
	Float32x2
	Float32x3
	Float32x4
	Uint32
)

// Size returns the size of f in bytes.
func (f VertexFmt) Size() int {
	switch f {
	case Float32, Uint32:
		return 4
	case Float32x2:
		return 8
	case Float32x3:
		return 12
	case Float32x4:
		return 16
	}
	return 0
}

// InputElement describes one vertex input.
type InputElement struct {
	Semantic string
	Index    int
	Format   VertexFmt
	Slot     int
	Offset   int
}

// InputLayout is the interface that defines the vertex
// input layout of the input assembler.
type InputLayout interface {
	Destroyer

	// Elements returns the layout's input elements.
	Elements() []InputElement
}

// Topology is the type of primitive topologies.
type Topology int

// Primitive topologies.
const (
	TUndefined Topology = iota
	TPointList
	TLineList
	TLineStrip
	TTriangleList
	TTriangleStrip
)

// IndexFmt describes the format of index buffer data.
type IndexFmt int

// Index formats.
const (
	Index16 IndexFmt = iota
	Index32
)

// Size returns the size of f in bytes.
func (f IndexFmt) Size() int {
	if f == Index16 {
		return 2
	}
	return 4
}

// VertexBufBinding describes a vertex buffer binding.
type VertexBufBinding struct {
	Buf    Buffer
	Stride int
	Off    int
}

// IndexBufBinding describes an index buffer binding.
type IndexBufBinding struct {
	Buf    Buffer
	Format IndexFmt
	Off    int
}

// Viewport defines a viewport transform.
type Viewport struct {
	X, Y          float32
	Width, Height float32
	ZNear, ZFar   float32
}

// Filter is the type of sampler filters.
type Filter int

// Filters.
const (
	FNearest Filter = iota
	FLinear
	FAnisotropic
)

// AddrMode is the type of sampler address modes.
type AddrMode int

// Address modes.
const (
	AWrap AddrMode = iota
	AMirror
	AClamp
)

// CmpFunc is the type of comparison functions.
type CmpFunc int

// Comparison functions.
const (
	CNever CmpFunc = iota
	CLess
	CEqual
	CLessEqual
	CGreater
	CNotEqual
	CGreaterEqual
	CAlways
)

// SamplerDesc describes sampler state.
type SamplerDesc struct {
	Filter   Filter
	AddrU    AddrMode
	AddrV    AddrMode
	AddrW    AddrMode
	MaxAniso int
	Cmp      CmpFunc
	MinLOD   float32
	MaxLOD   float32
}

// Sampler is the interface that defines an image sampler.
type Sampler interface {
	Destroyer
}

// CullMode is the type of cull modes.
type CullMode int

// Cull modes.
const (
	CullNone CullMode = iota
	CullFront
	CullBack
)

// FillMode is the type of fill modes.
type FillMode int

// Fill modes.
const (
	FillSolid FillMode = iota
	FillWireframe
)

// RasterDesc describes rasterizer state.
type RasterDesc struct {
	Fill      FillMode
	Cull      CullMode
	FrontCCW  bool
	DepthClip bool
	MSAA      bool
}

// RasterState is the interface that defines rasterizer
// state.
type RasterState interface {
	Destroyer
}

// BlendFac is the type of blend factors.
type BlendFac int

// Blend factors.
const (
	BZero BlendFac = iota
	BOne
	BSrcAlpha
	BInvSrcAlpha
	BBlendFactor
)

// BlendOp is the type of blend operations.
type BlendOp int

// Blend operations.
const (
	BAdd BlendOp = iota
	BSubtract
	BMin
	BMax
)

// ColorMask is the type of color write masks.
type ColorMask int

// Color write mask flags.
const (
	CRed ColorMask = 1 << iota
	CGreen
	CBlue
	CAlpha
	CAll ColorMask = 1<<iota - 1
)

// BlendDesc describes blend state for all render targets.
type BlendDesc struct {
	Enable    bool
	Src, Dst  BlendFac
	Op        BlendOp
	WriteMask ColorMask
}

// BlendState is the interface that defines blend state.
type BlendState interface {
	Destroyer
}

// ClearFlag is a mask selecting which aspects of a
// depth/stencil view to clear.
type ClearFlag int

// Clear flags.
const (
	CDepth ClearFlag = 1 << iota
	CStencil
)

// MapMode is the type of resource mapping modes.
type MapMode int

// Map modes.
const (
	MapRead MapMode = iota
	MapWrite
	MapReadWrite
	MapWriteDiscard
)

// Mapped is a CPU mapping of a resource.
type Mapped struct {
	Data []byte
	// RowPitch is the distance in bytes between image
	// rows. It is zero for buffers.
	RowPitch int
}

// Context is the interface that defines an immediate
// command context.
// Every Set call overwrites the binding it names; the
// last bound object wins and bindings persist across draws
// until replaced or until ClearState is called.
// Arguments are not validated for compatibility: misuse
// yields undefined rendering but no error.
type Context interface {
	// SetInputLayout sets the input layout.
	SetInputLayout(il InputLayout)

	// SetVertexBufs sets one or more vertex buffers
	// starting at slot start.
	SetVertexBufs(start int, bufs []VertexBufBinding)

	// SetIndexBuf sets the index buffer.
	SetIndexBuf(b IndexBufBinding)

	// SetTopology sets the primitive topology.
	SetTopology(t Topology)

	// SetVertShader sets the vertex shader.
	SetVertShader(s Shader)

	// SetPixShader sets the pixel shader.
	SetPixShader(s Shader)

	// SetConstBufs sets constant buffers of a given
	// stage starting at slot start.
	SetConstBufs(stage Stage, start int, bufs []Buffer)

	// SetResources sets shader resource views of a
	// given stage starting at slot start.
	SetResources(stage Stage, start int, views []View)

	// SetSamplers sets samplers of a given stage
	// starting at slot start.
	SetSamplers(stage Stage, start int, samplers []Sampler)

	// SetViewports sets the viewports.
	SetViewports(vp []Viewport)

	// SetRasterState sets the rasterizer state.
	// nil means the default state.
	SetRasterState(rs RasterState)

	// SetTargets sets the render targets and the
	// depth/stencil target of the output merger.
	// dsv may be nil.
	SetTargets(rtvs []View, dsv View)

	// SetBlendState sets the blend state.
	// nil means the default state.
	SetBlendState(bs BlendState, factor [4]float32, mask uint32)

	// ClearTarget clears a render target view.
	ClearTarget(rtv View, color [4]float32)

	// ClearDepthStencil clears the aspects of a
	// depth/stencil view selected by flags.
	ClearDepthStencil(dsv View, flags ClearFlag, depth float32, stencil uint8)

	// Update copies data from CPU memory into a
	// resource created with MDefault.
	// rowPitch is ignored for buffers.
	Update(res Resource, data []byte, rowPitch int)

	// Map maps a resource for CPU access.
	Map(res Resource, mode MapMode) (Mapped, error)

	// Unmap invalidates the mapping of a resource.
	Unmap(res Resource)

	// CopyResource copies the whole contents of src
	// into dst.
	// dst and src must have compatible descriptions.
	CopyResource(dst, src Resource)

	// Resolve resolves a multisampled image into a
	// single-sampled one.
	Resolve(dst, src Image, pf PixelFmt)

	// DrawIndexed draws indexed primitives.
	DrawIndexed(idxCount, startIdx, baseVert int)

	// ClearState resets every binding to its default.
	ClearState()

	// Flush submits pending commands.
	Flush()
}
