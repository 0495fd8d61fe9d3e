package renderer

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/Carmen-Shannon/oxy-frustum/common"
	"github.com/Carmen-Shannon/oxy-frustum/engine/camera"
	"github.com/Carmen-Shannon/oxy-frustum/engine/instancing"
	"github.com/Carmen-Shannon/oxy-frustum/engine/model"
	"github.com/Carmen-Shannon/oxy-frustum/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

//go:embed assets/instanced.wgsl
var instancedShaderBody string

// InstancedShaderSource is the complete WGSL module used by CreateInstancedPipeline: the
// camera, frustum, vertex and instance declarations followed by the entry points.
var InstancedShaderSource = strings.Join([]string{
	camera.GPUCameraUniformSource,
	common.GPUFrustumSource,
	model.GPUVertexSource,
	instancing.GPUInstanceDataSource,
	instancedShaderBody,
}, "\n")

// Frame bind group (group 0) bindings.
const (
	BindingCamera    = 0
	BindingFrustum   = 1
	BindingInstances = 2
)

const defaultInstanceCapacity = 1024

// MeshBuffers holds the GPU vertex and index buffers of one uploaded mesh.
type MeshBuffers struct {
	Label      string
	Vertex     *wgpu.Buffer
	Index      *wgpu.Buffer
	IndexCount uint32
}

// Release frees both buffers.
func (m *MeshBuffers) Release() {
	if m.Vertex != nil {
		m.Vertex.Release()
		m.Vertex = nil
	}
	if m.Index != nil {
		m.Index.Release()
		m.Index = nil
	}
}

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	backendType RendererBackendType
	backend     RendererBackend

	cameraBuffer     *wgpu.Buffer
	frustumBuffer    *wgpu.Buffer
	instanceBuffer   *wgpu.Buffer
	instanceCapacity int
	instanceCount    int

	frameLayout    *wgpu.BindGroupLayout
	frameBindGroup *wgpu.BindGroup

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	pendingPresentMode   *PresentMode
	pendingMSAA          *MSAASampleCount
	pendingClearColor    *ClearColor
}

// Renderer presents culled scenes through WebGPU.
//
// Each frame the caller uploads the camera uniform, the frustum planes and the visible instance
// matrices, then brackets its draw calls with BeginFrame / EndFrame / Present. The three uploads
// are exposed to shaders as bind group 0 (see FrameBindGroupLayout and InstancedShaderSource).
type Renderer interface {
	// Resize reconfigures the surface for a new framebuffer size.
	// Zero or negative sizes (a minimized window) are ignored.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	Resize(width, height int)

	// SetPresentMode changes the present mode; it takes effect on the next Resize.
	SetPresentMode(mode PresentMode)

	// SetClearColor changes the color the frame pass clears to.
	SetClearColor(color ClearColor)

	// UploadMesh creates vertex and index buffers for mesh.
	//
	// Parameters:
	//   - mesh: the mesh to upload
	//
	// Returns:
	//   - *MeshBuffers: the GPU buffers (caller releases)
	//   - error: error if buffer creation fails
	UploadMesh(mesh *model.Mesh) (*MeshBuffers, error)

	// WriteCamera uploads the camera uniform block.
	WriteCamera(u camera.GPUCameraUniform)

	// WriteFrustum uploads the six frustum planes.
	WriteFrustum(f common.Frustum)

	// WriteInstances uploads the model matrices of the instances to draw, growing the
	// instance storage buffer when needed.
	//
	// Parameters:
	//   - matrices: one model matrix per visible instance
	//
	// Returns:
	//   - error: error if the storage buffer could not be grown
	WriteInstances(matrices []mgl32.Mat4) error

	// InstanceCount returns the number of instances written by the last WriteInstances call.
	InstanceCount() int

	// FrameBindGroupLayout returns the layout of bind group 0 for building external pipelines.
	FrameBindGroupLayout() *wgpu.BindGroupLayout

	// FrameBindGroup returns bind group 0. It changes when the instance buffer grows.
	FrameBindGroup() *wgpu.BindGroup

	// CreateInstancedPipeline builds the render pipeline for InstancedShaderSource.
	//
	// Returns:
	//   - *wgpu.RenderPipeline: the pipeline drawing position-only meshes per instance
	//   - error: error if shader or pipeline creation fails
	CreateInstancedPipeline() (*wgpu.RenderPipeline, error)

	// BeginFrame acquires the swapchain texture and begins the clearing render pass.
	//
	// Returns:
	//   - error: an error if the swapchain texture could not be acquired
	BeginFrame() error

	// DrawInstanced draws mesh once per uploaded instance inside the current frame.
	//
	// Parameters:
	//   - p: a pipeline compatible with FrameBindGroupLayout
	//   - mesh: the mesh buffers to draw
	//
	// Returns:
	//   - error: an error if called outside a frame
	DrawInstanced(p *wgpu.RenderPipeline, mesh *MeshBuffers) error

	// EndFrame ends the current render pass and submits the command buffer to the GPU.
	EndFrame()

	// Present displays the frame submitted by EndFrame.
	Present()

	// Release frees every GPU resource owned by the renderer.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a new Renderer bound to the window's surface.
//
// Parameters:
//   - backendType: the type of rendering backend to use (e.g., WGPU)
//   - win: the window supplying the surface and its initial size
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: the configured renderer
//   - error: error if the GPU could not be initialized
func NewRenderer(backendType RendererBackendType, win window.Window, options ...RendererBuilderOption) (Renderer, error) {
	r := &renderer{
		mu:               &sync.Mutex{},
		backendType:      backendType,
		instanceCapacity: defaultInstanceCapacity,
	}

	// Apply options first so config flags (e.g. forceFallbackAdapter) are
	// available before the backend requests a GPU adapter.
	for _, opt := range options {
		opt(r)
	}

	msaa := MSAA4x
	if r.pendingMSAA != nil {
		msaa = *r.pendingMSAA
	}

	var (
		backend wgpuRendererBackend
		err     error
	)
	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		backend, err = newWGPURendererBackend(win.SurfaceDescriptor(), r.forceFallbackAdapter, msaa)
	}
	if err != nil {
		return nil, err
	}
	r.backend = backend

	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}
	if r.pendingClearColor != nil {
		r.backend.SetClearColor(*r.pendingClearColor)
	}
	r.backend.ConfigureSurface(win.Width(), win.Height())

	if err := r.initFrameResources(); err != nil {
		r.Release()
		return nil, err
	}
	return r, nil
}

// initFrameResources creates the camera, frustum and instance buffers and bind group 0.
func (r *renderer) initFrameResources() error {
	var err error
	r.cameraBuffer, err = r.backend.CreateBuffer("Camera Uniform Buffer", camera.GPUCameraUniformSize,
		wgpu.BufferUsageUniform|wgpu.BufferUsageCopyDst)
	if err != nil {
		return fmt.Errorf("renderer: camera buffer: %w", err)
	}
	r.frustumBuffer, err = r.backend.CreateBuffer("Frustum Uniform Buffer", common.GPUFrustumSize,
		wgpu.BufferUsageUniform|wgpu.BufferUsageCopyDst)
	if err != nil {
		return fmt.Errorf("renderer: frustum buffer: %w", err)
	}

	r.frameLayout, err = r.backend.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Frame Bind Group Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    BindingCamera,
				Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: camera.GPUCameraUniformSize,
				},
			},
			{
				Binding:    BindingFrustum,
				Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageCompute,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: common.GPUFrustumSize,
				},
			},
			{
				Binding:    BindingInstances,
				Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageCompute,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeReadOnlyStorage,
					MinBindingSize: instancing.GPUInstanceDataSize,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("renderer: frame bind group layout: %w", err)
	}

	return r.allocateInstances(r.instanceCapacity)
}

// allocateInstances replaces the instance buffer with one holding capacity instances and
// rebuilds bind group 0 around it.
func (r *renderer) allocateInstances(capacity int) error {
	buf, err := r.backend.CreateBuffer("Instance Storage Buffer",
		uint64(capacity*instancing.GPUInstanceDataSize),
		wgpu.BufferUsageStorage|wgpu.BufferUsageVertex|wgpu.BufferUsageCopyDst)
	if err != nil {
		return fmt.Errorf("renderer: instance buffer for %d instances: %w", capacity, err)
	}

	bindGroup, err := r.backend.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Frame Bind Group",
		Layout: r.frameLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: BindingCamera, Buffer: r.cameraBuffer, Offset: 0, Size: wgpu.WholeSize},
			{Binding: BindingFrustum, Buffer: r.frustumBuffer, Offset: 0, Size: wgpu.WholeSize},
			{Binding: BindingInstances, Buffer: buf, Offset: 0, Size: wgpu.WholeSize},
		},
	})
	if err != nil {
		buf.Release()
		return fmt.Errorf("renderer: frame bind group: %w", err)
	}

	if r.frameBindGroup != nil {
		r.frameBindGroup.Release()
	}
	if r.instanceBuffer != nil {
		r.instanceBuffer.Release()
	}
	r.instanceBuffer = buf
	r.frameBindGroup = bindGroup
	r.instanceCapacity = capacity
	return nil
}

// growCapacity doubles current until it holds needed.
func growCapacity(current, needed int) int {
	if current < 1 {
		current = 1
	}
	for current < needed {
		current *= 2
	}
	return current
}

func (r *renderer) Resize(width, height int) {
	r.backend.ConfigureSurface(width, height)
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.backend.SetPresentMode(mode)
}

func (r *renderer) SetClearColor(color ClearColor) {
	r.backend.SetClearColor(color)
}

func (r *renderer) UploadMesh(mesh *model.Mesh) (*MeshBuffers, error) {
	vertexData := mesh.VertexData()
	indexData := mesh.IndexData()
	if len(vertexData) == 0 || len(indexData) == 0 {
		return nil, fmt.Errorf("renderer: mesh %q is empty", mesh.Name)
	}

	mb := &MeshBuffers{Label: mesh.Name, IndexCount: uint32(len(mesh.Indices))}
	var err error
	mb.Vertex, err = r.backend.CreateBuffer(mesh.Name+" Vertex Buffer", uint64(len(vertexData)),
		wgpu.BufferUsageVertex|wgpu.BufferUsageCopyDst)
	if err != nil {
		return nil, fmt.Errorf("renderer: mesh %q vertex buffer: %w", mesh.Name, err)
	}
	mb.Index, err = r.backend.CreateBuffer(mesh.Name+" Index Buffer", uint64(len(indexData)),
		wgpu.BufferUsageIndex|wgpu.BufferUsageCopyDst)
	if err != nil {
		mb.Release()
		return nil, fmt.Errorf("renderer: mesh %q index buffer: %w", mesh.Name, err)
	}
	r.backend.WriteBuffer(mb.Vertex, 0, vertexData)
	r.backend.WriteBuffer(mb.Index, 0, indexData)
	return mb, nil
}

func (r *renderer) WriteCamera(u camera.GPUCameraUniform) {
	r.backend.WriteBuffer(r.cameraBuffer, 0, u.Marshal())
}

func (r *renderer) WriteFrustum(f common.Frustum) {
	g := f.GPU()
	r.backend.WriteBuffer(r.frustumBuffer, 0, g.Marshal())
}

func (r *renderer) WriteInstances(matrices []mgl32.Mat4) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(matrices) > r.instanceCapacity {
		if err := r.allocateInstances(growCapacity(r.instanceCapacity, len(matrices))); err != nil {
			return err
		}
	}
	r.instanceCount = len(matrices)
	r.backend.WriteBuffer(r.instanceBuffer, 0, instancing.MarshalMatrices(matrices))
	return nil
}

func (r *renderer) InstanceCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.instanceCount
}

func (r *renderer) FrameBindGroupLayout() *wgpu.BindGroupLayout {
	return r.frameLayout
}

func (r *renderer) FrameBindGroup() *wgpu.BindGroup {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.frameBindGroup
}

func (r *renderer) CreateInstancedPipeline() (*wgpu.RenderPipeline, error) {
	device := r.backend.Device()

	module, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: "Instanced Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: InstancedShaderSource,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("renderer: instanced shader: %w", err)
	}
	defer module.Release()

	layout, err := device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "Instanced Pipeline Layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{r.frameLayout},
	})
	if err != nil {
		return nil, fmt.Errorf("renderer: instanced pipeline layout: %w", err)
	}
	defer layout.Release()

	created, err := device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "Instanced Render Pipeline",
		Layout: layout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{
				{
					ArrayStride: model.GPUVertexStride,
					StepMode:    wgpu.VertexStepModeVertex,
					Attributes: []wgpu.VertexAttribute{
						{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
					},
				},
			},
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{
					Format:    r.backend.SurfaceFormat(),
					WriteMask: wgpu.ColorWriteMaskAll,
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{
			Count: uint32(r.backend.SampleCount()),
			Mask:  0xFFFFFFFF,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            wgpu.TextureFormatDepth24Plus,
			DepthWriteEnabled: true,
			DepthCompare:      wgpu.CompareFunctionLess,
			StencilFront: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
			StencilBack: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("renderer: instanced pipeline: %w", err)
	}
	return created, nil
}

func (r *renderer) BeginFrame() error {
	return r.backend.BeginFrame()
}

func (r *renderer) DrawInstanced(p *wgpu.RenderPipeline, mesh *MeshBuffers) error {
	pass := r.backend.RenderPass()
	if pass == nil {
		return fmt.Errorf("renderer: DrawInstanced outside BeginFrame/EndFrame")
	}

	r.mu.Lock()
	count := uint32(r.instanceCount)
	bindGroup := r.frameBindGroup
	r.mu.Unlock()
	if count == 0 {
		return nil
	}

	pass.SetPipeline(p)
	pass.SetBindGroup(0, bindGroup, nil)
	pass.SetVertexBuffer(0, mesh.Vertex, 0, wgpu.WholeSize)
	pass.SetIndexBuffer(mesh.Index, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
	pass.DrawIndexed(mesh.IndexCount, count, 0, 0, 0)
	return nil
}

func (r *renderer) EndFrame() {
	r.backend.EndFrame()
}

func (r *renderer) Present() {
	r.backend.Present()
}

func (r *renderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frameBindGroup != nil {
		r.frameBindGroup.Release()
		r.frameBindGroup = nil
	}
	if r.frameLayout != nil {
		r.frameLayout.Release()
		r.frameLayout = nil
	}
	for _, buf := range []**wgpu.Buffer{&r.instanceBuffer, &r.frustumBuffer, &r.cameraBuffer} {
		if *buf != nil {
			(*buf).Release()
			*buf = nil
		}
	}
	if r.backend != nil {
		r.backend.Release()
	}
}
