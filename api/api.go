package api

import (
	"bytes"
	"fmt"
	"io"
	"math"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/voxelsplace/voxconv/ovox"
	"github.com/voxelsplace/voxconv/voxel"
	"github.com/voxelsplace/voxconv/xraw"
)

// XRAWToOVOXBytes converts an .xraw file held in memory into .ovox bytes.
func XRAWToOVOXBytes(xrawBytes []byte) ([]byte, error) {
	c, err := xraw.Decode(xrawBytes)
	if err != nil {
		return nil, err
	}
	return ovox.Encode(c), nil
}

// OVOXToGLB takes .ovox bytes and returns a binary glTF preview.
func OVOXToGLB(ovoxBytes []byte) ([]byte, error) {
	c, err := ovox.Decode(ovoxBytes)
	if err != nil {
		return nil, err
	}
	doc, err := BuildGLTF(c)
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	enc := gltf.NewEncoder(&out)
	enc.AsBinary = true
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// BuildGLTF greedy-meshes the container into a single-node glTF document with
// per-vertex palette colours.
func BuildGLTF(c *voxel.Container) (*gltf.Document, error) {
	if err := c.CheckIndices(); err != nil {
		return nil, err
	}
	grid, err := voxel.NewGrid(c)
	if err != nil {
		return nil, err
	}
	mesh := voxel.GenerateMesh(grid)
	if len(mesh.Vertices) == 0 {
		return nil, fmt.Errorf("%w: no voxels to mesh", voxel.ErrMalformedSource)
	}

	positions := make([][3]float32, len(mesh.Vertices))
	colors := make([][4]float32, len(mesh.Vertices))
	hasAlpha := false
	for i, v := range mesh.Vertices {
		positions[i] = v.Position
		rgba := LinearRGBA(c.Palette[v.Material], c.NumColourChannels, c.BitsPerChannel)
		colors[i] = rgba
		if rgba[3] < 1.0 {
			hasAlpha = true
		}
	}
	indices := make([]uint32, len(mesh.Indices))
	copy(indices, mesh.Indices)
	normals := flatNormals(positions, indices)

	doc := gltf.NewDocument()
	doc.Asset.Generator = "OVOX -> GLB"
	posAccessor := modeler.WritePosition(doc, positions)
	normalAccessor := modeler.WriteNormal(doc, normals)
	colorAccessor := modeler.WriteColor(doc, colors)
	indicesAccessor := modeler.WriteIndices(doc, indices)
	prim := &gltf.Primitive{
		Attributes: gltf.PrimitiveAttributes{
			gltf.POSITION: posAccessor,
			gltf.NORMAL:   normalAccessor,
			gltf.COLOR_0:  colorAccessor,
		},
		Indices: gltf.Index(indicesAccessor),
	}
	pbr := &gltf.PBRMetallicRoughness{BaseColorFactor: &[4]float64{1, 1, 1, 1}, MetallicFactor: gltf.Float(0), RoughnessFactor: gltf.Float(1)}
	material := &gltf.Material{PBRMetallicRoughness: pbr}
	if hasAlpha {
		material.AlphaMode = gltf.AlphaBlend
	} else {
		material.AlphaMode = gltf.AlphaOpaque
	}
	doc.Materials = []*gltf.Material{material}
	prim.Material = gltf.Index(0)
	doc.Meshes = []*gltf.Mesh{{Name: "VoxelMesh", Primitives: []*gltf.Primitive{prim}}}
	doc.Nodes = []*gltf.Node{{Mesh: gltf.Index(0)}}
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0)
	return doc, nil
}

// flatNormals assigns each triangle's face normal to its corners. Quads from
// the mesher never share vertices, so this is exact.
func flatNormals(positions [][3]float32, indices []uint32) [][3]float32 {
	normals := make([][3]float32, len(positions))
	for i := 0; i+2 < len(indices); i += 3 {
		v0, v1, v2 := indices[i], indices[i+1], indices[i+2]
		p0, p1, p2 := positions[v0], positions[v1], positions[v2]
		vec1 := [3]float32{p1[0] - p0[0], p1[1] - p0[1], p1[2] - p0[2]}
		vec2 := [3]float32{p2[0] - p0[0], p2[1] - p0[1], p2[2] - p0[2]}
		cross := [3]float32{
			vec1[1]*vec2[2] - vec1[2]*vec2[1],
			vec1[2]*vec2[0] - vec1[0]*vec2[2],
			vec1[0]*vec2[1] - vec1[1]*vec2[0],
		}
		length := float32(math.Sqrt(float64(cross[0]*cross[0] + cross[1]*cross[1] + cross[2]*cross[2])))
		if length > 0 {
			cross[0] /= length
			cross[1] /= length
			cross[2] /= length
		}
		normals[v0] = cross
		normals[v1] = cross
		normals[v2] = cross
	}
	return normals
}

// Inspect writes a human-readable summary of .ovox bytes.
func Inspect(w io.Writer, ovoxBytes []byte) error {
	c, err := ovox.Decode(ovoxBytes)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "frame     %dx%dx%d\n", c.FrameSize.X, c.FrameSize.Y, c.FrameSize.Z)
	fmt.Fprintf(w, "channels  %d x %d bits\n", c.NumColourChannels, c.BitsPerChannel)
	fmt.Fprintf(w, "voxels    %d\n", len(c.Voxels))
	fmt.Fprintf(w, "palette   %d\n", len(c.Palette))
	fmt.Fprintf(w, "xxh64     %016x\n", ovox.Digest(ovoxBytes))
	counts := make([]int, len(c.Palette))
	for _, v := range c.Voxels {
		if int(v.Index) < len(counts) {
			counts[v.Index]++
		}
	}
	for i, m := range c.Palette {
		fmt.Fprintf(w, "  %3d %s  raw(%d,%d,%d,%d)  %d voxels\n", i, Hex(m, c.NumColourChannels, c.BitsPerChannel),
			m.Colour.X, m.Colour.Y, m.Colour.Z, m.Colour.W, counts[i])
	}
	return c.CheckIndices()
}
