//go:build !nogpu

package native

import (
	_ "embed"
	"encoding/binary"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
)

//go:embed shaders/present.wgsl
var presentShaderWGSL string

// presentWorkgroupSize must match @workgroup_size in present.wgsl.
const presentWorkgroupSize = 64

// compileToSPIRV compiles WGSL source to SPIR-V words via naga.
// SPIR-V is little-endian 32-bit words.
func compileToSPIRV(wgslSource string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(wgslSource)
	if err != nil {
		return nil, fmt.Errorf("native: compile shader: %w", err)
	}
	spirvCode := make([]uint32, len(spirvBytes)/4)
	for i := range spirvCode {
		spirvCode[i] = binary.LittleEndian.Uint32(spirvBytes[i*4:])
	}
	return spirvCode, nil
}

// presentPipeline is the compute pipeline that blits a drawable's back
// buffer to its front buffer at SwapBuffers.
type presentPipeline struct {
	device hal.Device

	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.ComputePipeline
}

// buildPresentPipeline compiles and wires the present shader. Bindings
// match present.wgsl: uniform config, read-only back, read-write front.
func buildPresentPipeline(device hal.Device) (*presentPipeline, error) {
	spirv, err := compileToSPIRV(presentShaderWGSL)
	if err != nil {
		return nil, err
	}

	p := &presentPipeline{device: device}

	p.shader, err = device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "glx_present",
		Source: hal.ShaderSource{SPIRV: spirv},
	})
	if err != nil {
		return nil, fmt.Errorf("native: create present shader: %w", err)
	}

	p.bindLayout, err = device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "glx_present_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{Binding: 0, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform}},
			{Binding: 1, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeReadOnlyStorage}},
			{Binding: 2, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeStorage}},
		},
	})
	if err != nil {
		p.destroy()
		return nil, fmt.Errorf("native: create present bind group layout: %w", err)
	}

	p.pipeLayout, err = device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label: "glx_present_pipe_layout", BindGroupLayouts: []hal.BindGroupLayout{p.bindLayout},
	})
	if err != nil {
		p.destroy()
		return nil, fmt.Errorf("native: create present pipeline layout: %w", err)
	}

	p.pipeline, err = device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label: "glx_present_pipeline", Layout: p.pipeLayout,
		Compute: hal.ComputeState{Module: p.shader, EntryPoint: "main"},
	})
	if err != nil {
		p.destroy()
		return nil, fmt.Errorf("native: create present pipeline: %w", err)
	}

	return p, nil
}

func (p *presentPipeline) destroy() {
	if p.device == nil {
		return
	}
	if p.pipeline != nil {
		p.device.DestroyComputePipeline(p.pipeline)
		p.pipeline = nil
	}
	if p.pipeLayout != nil {
		p.device.DestroyPipelineLayout(p.pipeLayout)
		p.pipeLayout = nil
	}
	if p.bindLayout != nil {
		p.device.DestroyBindGroupLayout(p.bindLayout)
		p.bindLayout = nil
	}
	if p.shader != nil {
		p.device.DestroyShaderModule(p.shader)
		p.shader = nil
	}
}

// present records and submits one blit of back onto front, then waits for
// completion so the front buffer is stable when the host samples it.
func (p *presentPipeline) present(dev *gpuDevice, d *drawableBuffers) error {
	dev.queue.WriteBuffer(d.config, 0, d.configBytes())

	bindGroup, err := dev.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "glx_present_bg",
		Layout: p.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{Buffer: d.config}},
			{Binding: 1, Resource: gputypes.BufferBinding{Buffer: d.back}},
			{Binding: 2, Resource: gputypes.BufferBinding{Buffer: d.front}},
		},
	})
	if err != nil {
		return fmt.Errorf("native: create present bind group: %w", err)
	}
	defer dev.device.DestroyBindGroup(bindGroup)

	encoder, err := dev.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "glx_present",
	})
	if err != nil {
		return fmt.Errorf("native: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("glx_present"); err != nil {
		return fmt.Errorf("native: begin encoding: %w", err)
	}

	workgroups := (d.pixelCount() + presentWorkgroupSize - 1) / presentWorkgroupSize
	pass := encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: "glx_present"})
	pass.SetPipeline(p.pipeline)
	pass.SetBindGroup(0, bindGroup, nil)
	pass.Dispatch(workgroups, 1, 1)
	pass.End()

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("native: end encoding: %w", err)
	}
	defer cmdBuf.Destroy()

	fence, err := dev.device.CreateFence()
	if err != nil {
		return fmt.Errorf("native: create fence: %w", err)
	}
	defer dev.device.DestroyFence(fence)

	if err := dev.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("native: submit present: %w", err)
	}
	ok, err := dev.device.Wait(fence, 1, fenceTimeout)
	if err != nil {
		return fmt.Errorf("native: wait for present: %w", err)
	}
	if !ok {
		return fmt.Errorf("native: present timeout")
	}
	return nil
}

// copyPresent is the fallback when the compute pipeline is unavailable: a
// plain GPU buffer copy of back onto front.
func copyPresent(dev *gpuDevice, d *drawableBuffers) error {
	encoder, err := dev.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "glx_present_copy",
	})
	if err != nil {
		return fmt.Errorf("native: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("glx_present_copy"); err != nil {
		return fmt.Errorf("native: begin encoding: %w", err)
	}

	encoder.CopyBufferToBuffer(d.back, d.front, []hal.BufferCopy{
		{SrcOffset: 0, DstOffset: 0, Size: d.byteSize()},
	})

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("native: end encoding: %w", err)
	}
	defer cmdBuf.Destroy()

	fence, err := dev.device.CreateFence()
	if err != nil {
		return fmt.Errorf("native: create fence: %w", err)
	}
	defer dev.device.DestroyFence(fence)

	if err := dev.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("native: submit copy: %w", err)
	}
	ok, err := dev.device.Wait(fence, 1, fenceTimeout)
	if err != nil {
		return fmt.Errorf("native: wait for copy: %w", err)
	}
	if !ok {
		return fmt.Errorf("native: copy timeout")
	}
	return nil
}
