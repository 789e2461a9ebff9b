package fpsproto

import (
	"cmp"
	"slices"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

// RenderModule draws every camera in Order: meshes sharing a layer with the camera, then the UI
// images on top. The first camera clears the frame, later ones draw over it with a fresh depth
// buffer so view-model geometry is never hidden by the world.
type RenderModule struct {
	Ambient [3]float32
	// Exposure scales point light intensity into shader radiance.
	Exposure float32
}

type meshUniform struct {
	Model mgl32.Mat4
	Color mgl32.Vec4
}

type cameraUniform struct {
	ViewProj      mgl32.Mat4
	Position      mgl32.Vec4
	LightPosition mgl32.Vec4
	LightColor    mgl32.Vec4 // rgb, intensity
	Ambient       mgl32.Vec4 // rgb, exposure
}

type uiVertex struct {
	Position [2]float32 `gpu:"layout" format:"float2" location:"0"`
	UV       [2]float32 `gpu:"layout" format:"float2" location:"1"`
}

var uiQuadIndices = []uint16{0, 1, 2, 0, 2, 3}

type gpuMesh struct {
	version    uint
	vertexBuf  *wgpu.Buffer
	indexBuf   *wgpu.Buffer
	indexCount uint32
}

type gpuUniform struct {
	buffer    *wgpu.Buffer
	bindGroup *wgpu.BindGroup
}

type gpuUiImage struct {
	texture   AssetId
	version   uint
	view      *wgpu.TextureView
	bindGroup *wgpu.BindGroup
	vertexBuf *wgpu.Buffer
	indexBuf  *wgpu.Buffer
}

type forwardRenderer struct {
	meshPipeline *wgpu.RenderPipeline
	uiPipeline   *wgpu.RenderPipeline
	sampler      *wgpu.Sampler
	depthTexture *wgpu.Texture
	depthView    *wgpu.TextureView

	meshes   map[AssetId]*gpuMesh
	objects  map[EntityId]*gpuUniform
	cameras  map[EntityId]*gpuUniform
	uiImages map[EntityId]*gpuUiImage

	ambient  mgl32.Vec4
	exposure float32
}

func (m RenderModule) Install(app *App, cmd *Commands) {
	ws, ok := Resource[WindowState](app)
	if !ok {
		panic("RenderModule needs PlatformWindowModule installed first")
	}
	gpuState := createGpuState(ws)

	exposure := m.Exposure
	if exposure <= 0 {
		exposure = 0.01
	}
	ambient := m.Ambient
	if ambient == ([3]float32{}) {
		ambient = [3]float32{0.08, 0.08, 0.08}
	}

	r := &forwardRenderer{
		meshPipeline: createRenderPipeline("mesh", meshShader, Vertex{}, gpuState, pipelineOptions{
			depth: true,
			cull:  wgpu.CullModeBack,
		}),
		uiPipeline: createRenderPipeline("ui", uiShader, uiVertex{}, gpuState, pipelineOptions{
			blend: alphaBlending,
			cull:  wgpu.CullModeNone,
		}),
		sampler:  createSampler(gpuState),
		meshes:   make(map[AssetId]*gpuMesh),
		objects:  make(map[EntityId]*gpuUniform),
		cameras:  make(map[EntityId]*gpuUniform),
		uiImages: make(map[EntityId]*gpuUiImage),
		ambient:  mgl32.Vec4{ambient[0], ambient[1], ambient[2], exposure},
		exposure: exposure,
	}
	r.depthTexture, r.depthView = createDepthView(gpuState)

	cmd.AddResources(gpuState, r)
	app.UseSystem(
		System(renderSystem).
			InStage(Render),
	)
}

type cameraView struct {
	entity    EntityId
	camera    CameraComponent
	transform TransformComponent
}

type meshDraw struct {
	entity EntityId
	mesh   AssetId
	layers RenderLayers
	model  mgl32.Mat4
	color  mgl32.Vec4
}

type lightView struct {
	position  mgl32.Vec3
	color     [3]float32
	intensity float32
}

type framePlan struct {
	cameras []cameraView
	meshes  []meshDraw
	light   lightView
}

func (c cameraView) draws(m meshDraw) bool {
	return c.camera.Layers.Intersects(m.layers)
}

// depthRemap maps OpenGL clip depth [-w, w] onto the WebGPU range [0, w].
var depthRemap = mgl32.Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 0.5, 0,
	0, 0, 0.5, 1,
}

func (c cameraView) viewProj(aspect float32) mgl32.Mat4 {
	return depthRemap.Mul4(c.camera.Projection(aspect)).Mul4(c.camera.View(c.transform))
}

// planFrame snapshots what to draw: cameras sorted by Order, every mesh, and the first point light.
func planFrame(cmd *Commands) framePlan {
	var plan framePlan

	MakeQuery2[CameraComponent, TransformComponent](cmd).Map(func(eid EntityId, cam *CameraComponent, tr *TransformComponent) bool {
		plan.cameras = append(plan.cameras, cameraView{entity: eid, camera: *cam, transform: *tr})
		return true
	})
	slices.SortFunc(plan.cameras, func(a, b cameraView) int {
		if c := cmp.Compare(a.camera.Order, b.camera.Order); c != 0 {
			return c
		}
		return cmp.Compare(a.entity, b.entity)
	})

	MakeQuery3[MeshComponent, MaterialComponent, TransformComponent](cmd).Map(func(eid EntityId, mesh *MeshComponent, mat *MaterialComponent, tr *TransformComponent) bool {
		plan.meshes = append(plan.meshes, meshDraw{
			entity: eid,
			mesh:   mesh.Mesh,
			layers: mesh.EffectiveLayers(),
			model:  tr.Matrix(),
			color:  mat.Color,
		})
		return true
	})
	slices.SortFunc(plan.meshes, func(a, b meshDraw) int { return cmp.Compare(a.entity, b.entity) })

	found := false
	MakeQuery2[LightComponent, TransformComponent](cmd).Map(func(eid EntityId, light *LightComponent, tr *TransformComponent) bool {
		if light.Type != LightTypePoint || found {
			return true
		}
		found = true
		plan.light = lightView{position: tr.Position, color: light.Color, intensity: light.Intensity}
		return true
	})
	return plan
}

func renderSystem(cmd *Commands, r *forwardRenderer, gpuState *GpuState, ws *WindowState, assets *AssetServer) {
	if ws.WindowWidth <= 0 || ws.WindowHeight <= 0 {
		// minimized
		return
	}
	if gpuState.resize(ws.WindowWidth, ws.WindowHeight) {
		r.depthView.Release()
		r.depthTexture.Release()
		r.depthTexture, r.depthView = createDepthView(gpuState)
	}

	plan := planFrame(cmd)
	r.uploadMeshes(plan, assets, gpuState)
	r.writeUniforms(plan, gpuState)
	images := r.prepareUiImages(cmd, assets, gpuState, ws)

	nextTexture, err := gpuState.surface.GetCurrentTexture()
	if err != nil {
		cmd.Logger().Warnf("GetCurrentTexture failed: %v", err)
		return
	}
	view, err := nextTexture.CreateView(nil)
	if err != nil {
		panic(err)
	}
	defer view.Release()
	encoder, err := gpuState.device.CreateCommandEncoder(nil)
	if err != nil {
		panic(err)
	}
	defer encoder.Release()

	if len(plan.cameras) == 0 {
		r.clearPass(encoder, view)
	}
	for i, cam := range plan.cameras {
		r.cameraPass(encoder, view, i == 0, cam, plan.meshes)
	}
	r.uiPass(encoder, view, images)

	cmdBuffer, err := encoder.Finish(nil)
	if err != nil {
		panic(err)
	}
	defer cmdBuffer.Release()

	gpuState.queue.Submit(cmdBuffer)
	gpuState.surface.Present()
}

func (r *forwardRenderer) uploadMeshes(plan framePlan, assets *AssetServer, gpuState *GpuState) {
	for _, draw := range plan.meshes {
		asset, ok := assets.Mesh(draw.mesh)
		if !ok {
			continue
		}
		if m, ok := r.meshes[draw.mesh]; ok && m.version == asset.version {
			continue
		} else if ok {
			m.vertexBuf.Release()
			m.indexBuf.Release()
		}
		vb, ib := createVertexIndexBuffers(asset.Vertices, asset.Indices, gpuState.device)
		r.meshes[draw.mesh] = &gpuMesh{
			version:    asset.version,
			vertexBuf:  vb,
			indexBuf:   ib,
			indexCount: uint32(len(asset.Indices)),
		}
	}
}

func (r *forwardRenderer) uniformFor(cache map[EntityId]*gpuUniform, eid EntityId, group uint32, data any, gpuState *GpuState) {
	if u, ok := cache[eid]; ok {
		gpuState.queue.WriteBuffer(u.buffer, 0, toBufferBytes(data))
		return
	}
	buffer := createBuffer("Uniform", data, gpuState, wgpu.BufferUsageUniform|wgpu.BufferUsageCopyDst)
	cache[eid] = &gpuUniform{
		buffer: buffer,
		bindGroup: createBindGroup(r.meshPipeline, group, []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: buffer, Size: wgpu.WholeSize},
		}, gpuState.device),
	}
}

func (r *forwardRenderer) writeUniforms(plan framePlan, gpuState *GpuState) {
	aspect := float32(gpuState.surfaceConfig.Width) / float32(gpuState.surfaceConfig.Height)
	light := plan.light
	for _, cam := range plan.cameras {
		r.uniformFor(r.cameras, cam.entity, 0, cameraUniform{
			ViewProj:      cam.viewProj(aspect),
			Position:      cam.transform.Position.Vec4(1),
			LightPosition: light.position.Vec4(1),
			LightColor:    mgl32.Vec4{light.color[0], light.color[1], light.color[2], light.intensity},
			Ambient:       r.ambient,
		}, gpuState)
	}
	for _, draw := range plan.meshes {
		r.uniformFor(r.objects, draw.entity, 1, meshUniform{Model: draw.model, Color: draw.color}, gpuState)
	}
}

func (r *forwardRenderer) clearPass(encoder *wgpu.CommandEncoder, view *wgpu.TextureView) {
	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: wgpu.Color{A: 1},
		}},
	})
	defer pass.Release()
	if err := pass.End(); err != nil {
		panic(err)
	}
}

func (r *forwardRenderer) cameraPass(encoder *wgpu.CommandEncoder, view *wgpu.TextureView, first bool, cam cameraView, meshes []meshDraw) {
	loadOp := wgpu.LoadOpLoad
	if first {
		loadOp = wgpu.LoadOpClear
	}
	clear := cam.camera.ClearColor
	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     loadOp,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: wgpu.Color{R: float64(clear[0]), G: float64(clear[1]), B: float64(clear[2]), A: float64(clear[3])},
		}},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            r.depthView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpStore,
			DepthClearValue: 1,
		},
	})
	defer pass.Release()

	pass.SetPipeline(r.meshPipeline)
	pass.SetBindGroup(0, r.cameras[cam.entity].bindGroup, nil)
	for _, draw := range meshes {
		if !cam.draws(draw) {
			continue
		}
		m, ok := r.meshes[draw.mesh]
		if !ok {
			continue
		}
		pass.SetBindGroup(1, r.objects[draw.entity].bindGroup, nil)
		pass.SetVertexBuffer(0, m.vertexBuf, 0, wgpu.WholeSize)
		pass.SetIndexBuffer(m.indexBuf, wgpu.IndexFormatUint16, 0, wgpu.WholeSize)
		pass.DrawIndexed(m.indexCount, 1, 0, 0, 0)
	}

	if err := pass.End(); err != nil {
		panic(err)
	}
}

// uiQuad lays out a textured rectangle counter-clockwise from the bottom-left corner.
func uiQuad(lo, hi mgl32.Vec2) []uiVertex {
	return []uiVertex{
		{Position: [2]float32{lo.X(), lo.Y()}, UV: [2]float32{0, 1}},
		{Position: [2]float32{hi.X(), lo.Y()}, UV: [2]float32{1, 1}},
		{Position: [2]float32{hi.X(), hi.Y()}, UV: [2]float32{1, 0}},
		{Position: [2]float32{lo.X(), hi.Y()}, UV: [2]float32{0, 0}},
	}
}

func (r *forwardRenderer) prepareUiImages(cmd *Commands, assets *AssetServer, gpuState *GpuState, ws *WindowState) []*gpuUiImage {
	var ids []EntityId
	MakeQuery1[UiImage](cmd).Map(func(eid EntityId, img *UiImage) bool {
		ids = append(ids, eid)
		return true
	})
	slices.Sort(ids)

	var res []*gpuUiImage
	for _, eid := range ids {
		img, _ := GetComponent[UiImage](cmd, eid)
		if !img.onOverlay() {
			continue
		}
		tex, ok := assets.Texture(img.Texture)
		if !ok || tex.Width == 0 || tex.Height == 0 {
			continue
		}
		lo, hi := img.ScreenRect(tex.Width, tex.Height, ws.WindowWidth, ws.WindowHeight)
		quad := uiQuad(lo, hi)

		g, ok := r.uiImages[eid]
		if !ok {
			vb, ib := createVertexIndexBuffers(quad, uiQuadIndices, gpuState.device)
			g = &gpuUiImage{vertexBuf: vb, indexBuf: ib}
			r.uiImages[eid] = g
		} else {
			gpuState.queue.WriteBuffer(g.vertexBuf, 0, wgpu.ToBytes(quad))
		}

		if g.view == nil || g.texture != img.Texture || g.version != tex.version {
			if g.view != nil {
				g.bindGroup.Release()
				g.view.Release()
			}
			g.texture = img.Texture
			g.version = tex.version
			g.view = createTextureFromAsset(tex, gpuState)
			g.bindGroup = createBindGroup(r.uiPipeline, 0, []wgpu.BindGroupEntry{
				{Binding: 0, TextureView: g.view},
				{Binding: 1, Sampler: r.sampler},
			}, gpuState.device)
		}
		res = append(res, g)
	}
	return res
}

func (r *forwardRenderer) uiPass(encoder *wgpu.CommandEncoder, view *wgpu.TextureView, images []*gpuUiImage) {
	if len(images) == 0 {
		return
	}
	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:    view,
			LoadOp:  wgpu.LoadOpLoad,
			StoreOp: wgpu.StoreOpStore,
		}},
	})
	defer pass.Release()

	pass.SetPipeline(r.uiPipeline)
	for _, g := range images {
		pass.SetBindGroup(0, g.bindGroup, nil)
		pass.SetVertexBuffer(0, g.vertexBuf, 0, wgpu.WholeSize)
		pass.SetIndexBuffer(g.indexBuf, wgpu.IndexFormatUint16, 0, wgpu.WholeSize)
		pass.DrawIndexed(uint32(len(uiQuadIndices)), 1, 0, 0, 0)
	}

	if err := pass.End(); err != nil {
		panic(err)
	}
}

const meshShader = `
struct Camera {
    view_proj: mat4x4<f32>,
    position: vec4<f32>,
    light_position: vec4<f32>,
    light_color: vec4<f32>,
    ambient: vec4<f32>,
};

struct Object {
    model: mat4x4<f32>,
    color: vec4<f32>,
};

@group(0) @binding(0) var<uniform> camera: Camera;
@group(1) @binding(0) var<uniform> obj: Object;

struct VertexInput {
    @location(0) position: vec3<f32>,
    @location(1) normal: vec3<f32>,
    @location(2) uv: vec2<f32>,
};

struct VertexOutput {
    @builtin(position) clip: vec4<f32>,
    @location(0) world_pos: vec3<f32>,
    @location(1) normal: vec3<f32>,
};

@vertex
fn vs_main(in: VertexInput) -> VertexOutput {
    var out: VertexOutput;
    let world = obj.model * vec4<f32>(in.position, 1.0);
    out.clip = camera.view_proj * world;
    out.world_pos = world.xyz;
    out.normal = (obj.model * vec4<f32>(in.normal, 0.0)).xyz;
    return out;
}

@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    let n = normalize(in.normal);
    let to_light = camera.light_position.xyz - in.world_pos;
    let d2 = max(dot(to_light, to_light), 0.0001);
    let l = to_light / sqrt(d2);
    let lambert = max(dot(n, l), 0.0);
    let radiance = camera.light_color.rgb * camera.light_color.a / (4.0 * 3.14159265 * d2) * camera.ambient.a;
    let lit = obj.color.rgb * (camera.ambient.rgb + radiance * lambert);
    return vec4<f32>(lit, obj.color.a);
}
`

const uiShader = `
@group(0) @binding(0) var tex: texture_2d<f32>;
@group(0) @binding(1) var samp: sampler;

struct VertexInput {
    @location(0) position: vec2<f32>,
    @location(1) uv: vec2<f32>,
};

struct VertexOutput {
    @builtin(position) clip: vec4<f32>,
    @location(0) uv: vec2<f32>,
};

@vertex
fn vs_main(in: VertexInput) -> VertexOutput {
    var out: VertexOutput;
    out.clip = vec4<f32>(in.position, 0.0, 1.0);
    out.uv = in.uv;
    return out;
}

@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    return textureSample(tex, samp, in.uv);
}
`
