// meshtool is a CLI utility for inspecting meshes and scene files.
package main

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/softbody/internal/assets"
	"github.com/Faultbox/softbody/internal/scene"
	"github.com/Faultbox/softbody/pkg/mesh"
	"github.com/Faultbox/softbody/pkg/xpbd"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "info":
		cmdInfo(args)
	case "scene":
		cmdScene(args)
	case "run":
		cmdRun(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`meshtool - softbody mesh and scene utility

Usage:
  meshtool <command> [options]

Commands:
  info <file.obj|cube|plane>          Show mesh topology and bounds
  scene [-meshes dir] <scene.yaml>    List scene objects and their constraints
  run [-frames N] [-meshes dir] <scene.yaml>
                                      Simulate headless and dump the final state

Examples:
  meshtool info meshes/tetra.obj
  meshtool scene scenes/stack.yaml
  meshtool run -frames 300 scenes/test_scene.yaml`)
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

func loadMesh(name string) (*mesh.Mesh, error) {
	switch name {
	case "cube":
		return mesh.Cube(), nil
	case "plane":
		return mesh.Plane(), nil
	}
	return mesh.LoadOBJ(name)
}

func cmdInfo(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: meshtool info <file.obj|cube|plane>")
		os.Exit(1)
	}

	m, err := loadMesh(args[0])
	if err != nil {
		fail("%v", err)
	}

	var area float32
	degenerate := 0
	for _, t := range m.Triangles {
		area += mesh.TriangleArea(m.Positions, t)
		if mesh.FaceNormal(m.Positions, t) == (mgl32.Vec3{}) {
			degenerate++
		}
	}
	b := m.Bounds()

	fmt.Printf("Mesh:       %s\n", m.Name)
	fmt.Printf("Vertices:   %d\n", m.VertexCount())
	fmt.Printf("Triangles:  %d (%d degenerate)\n", len(m.Triangles), degenerate)
	fmt.Printf("Edges:      %d\n", len(m.Edges()))
	fmt.Printf("Surface:    %.4f\n", area)
	fmt.Printf("Bounds:     [%.3f %.3f %.3f] .. [%.3f %.3f %.3f]\n",
		b.Min[0], b.Min[1], b.Min[2], b.Max[0], b.Max[1], b.Max[2])
	if err := m.Validate(); err != nil {
		fmt.Printf("Invalid:    %v\n", err)
	}
}

func openScene(cmd string, args []string) (*scene.Scene, int) {
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	meshDir := fs.String("meshes", "meshes", "Directory searched for <name>.obj")
	frames := fs.Int("frames", 600, "Frames to simulate (run only)")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: meshtool %s [options] <scene.yaml>\n", cmd)
		os.Exit(1)
	}

	desc, err := scene.LoadFile(fs.Arg(0))
	if err != nil {
		fail("%v", err)
	}
	lib := assets.NewManager(nil)
	if err := lib.AddDir(*meshDir); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v (using built-in meshes)\n", err)
	}

	s := scene.New(desc.Name, desc, lib, scene.Options{
		Params:    xpbd.DefaultParams(),
		Gravity:   mgl32.Vec3{0, -9.81, 0},
		Scheduler: scene.Pool{},
	})
	if len(s.Objects) != len(desc.Objects) {
		fmt.Fprintf(os.Stderr, "Warning: %d of %d objects could not be built\n",
			len(desc.Objects)-len(s.Objects), len(desc.Objects))
	}
	return s, *frames
}

func cmdScene(args []string) {
	s, _ := openScene("scene", args)

	fmt.Printf("Scene:   %s\n", s.Name)
	fmt.Printf("Gravity: %v\n", s.Gravity)
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tMESH\tSTATIC\tVERTICES\tDISTANCE\tVOLUME\tOBSTACLES")
	for _, o := range s.Objects {
		fmt.Fprintf(w, "%s\t%s\t%v\t%d\t%d\t%d\t%d\n",
			o.Name, o.Mesh.Name, o.Static, o.Body.VertexCount(),
			o.Body.Distance.Len(), o.Body.Volume.Len(), len(o.Body.Collision))
	}
	w.Flush()
}

func cmdRun(args []string) {
	s, frames := openScene("run", args)

	const dt = float32(1.0 / 60.0)
	start := time.Now()
	for range frames {
		s.Update(dt)
	}
	elapsed := time.Since(start)

	st := s.Stats()
	fmt.Printf("# %d frames in %v (%d substeps, %d collisions, %d skipped)\n",
		st.Frames, elapsed.Round(time.Millisecond), st.Solver.Substeps, st.Solver.Collisions, st.Solver.Skipped)
	if err := s.Dump(os.Stdout); err != nil {
		fail("%v", err)
	}
}
