// meshtool is a CLI utility for inspecting serialized mesh archives.
package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/Faultbox/serialmesh/internal/config"
	"github.com/Faultbox/serialmesh/internal/logger"
	"github.com/Faultbox/serialmesh/pkg/serialized"
	"github.com/Faultbox/serialmesh/pkg/stream"
)

var cfg *config.Config

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	cfg, err = config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "info":
		cmdInfo(args)
	case "dump":
		cmdDump(args)
	case "validate", "check":
		cmdValidate(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`meshtool - serialized mesh archive utility

Usage:
  meshtool <command> [options]

Commands:
  info <file>            Show archive dictionary (sub-mesh count and offsets)
  dump <file> [index]    Decode one sub-mesh and print its summary
  validate <file>        Decode every sub-mesh and report failures

Examples:
  meshtool info scene.serialized
  meshtool dump scene.serialized 2
  meshtool validate scene.serialized`)
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func cmdInfo(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: meshtool info <file>")
		os.Exit(1)
	}
	path := cfg.ResolveArchive(args[0])

	s, err := stream.OpenFile(path)
	if err != nil {
		fatal(err)
	}
	defer s.Close()

	version, err := serialized.ProbeVersion(s)
	if err != nil {
		fatal(err)
	}
	offsets, err := serialized.ReadDictionary(s, version)
	if err != nil {
		fatal(err)
	}

	fmt.Printf("Archive:   %s\n", path)
	fmt.Printf("Version:   0x%04X\n", version)
	fmt.Printf("Sub-meshes: %d\n", len(offsets))
	for i, off := range offsets {
		fmt.Printf("  [%d] offset %d\n", i, off)
	}
}

func cmdDump(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: meshtool dump <file> [index]")
		os.Exit(1)
	}
	path := cfg.ResolveArchive(args[0])

	opts := serialized.DefaultOptions()
	if len(args) > 1 {
		idx, err := strconv.Atoi(args[1])
		if err != nil {
			fatal(fmt.Errorf("invalid index %q", args[1]))
		}
		opts.ShapeIndex = idx
	}

	mesh, err := serialized.LoadMesh(path, opts)
	if err != nil {
		fatal(err)
	}

	fmt.Printf("Name:      %s\n", mesh.Name)
	fmt.Printf("Flags:     %s\n", mesh.Flags)
	fmt.Printf("Vertices:  %d\n", mesh.VertexCount)
	fmt.Printf("Faces:     %d\n", mesh.FaceCount)
	fmt.Printf("Stride:    %d bytes\n", mesh.VertexFields.Stride())
	fmt.Print("Layout:   ")
	for _, f := range mesh.VertexFields.Fields() {
		fmt.Printf(" %s@%d", f.Name, f.Offset)
	}
	fmt.Println()
	if mesh.Bounds.Valid() {
		fmt.Printf("Bounds:    [%g %g %g] .. [%g %g %g]\n",
			mesh.Bounds.Min.X, mesh.Bounds.Min.Y, mesh.Bounds.Min.Z,
			mesh.Bounds.Max.X, mesh.Bounds.Max.Y, mesh.Bounds.Max.Z)
	}
}

func cmdValidate(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: meshtool validate <file>")
		os.Exit(1)
	}
	path := cfg.ResolveArchive(args[0])

	s, err := stream.OpenFile(path)
	if err != nil {
		fatal(err)
	}
	count, err := serialized.MeshCount(s)
	s.Close()
	if err != nil {
		fatal(err)
	}

	failures := 0
	for i := 0; i < int(count); i++ {
		opts := serialized.DefaultOptions()
		opts.ShapeIndex = i
		mesh, err := serialized.LoadMesh(path, opts)
		if err != nil {
			failures++
			fmt.Printf("  [%d] FAIL: %v\n", i, err)
			continue
		}
		fmt.Printf("  [%d] ok: %q %d vertices, %d faces (%s)\n",
			i, mesh.Name, mesh.VertexCount, mesh.FaceCount, mesh.Flags)
	}

	if failures > 0 {
		fatal(errors.New(strconv.Itoa(failures) + " sub-mesh(es) failed to decode"))
	}
	fmt.Printf("All %d sub-mesh(es) decoded cleanly\n", count)
}
