package cmd

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/achilleasa/gputrace/asset/compiler/bvh"
	"github.com/achilleasa/gputrace/asset/scene/reader"
	"github.com/urfave/cli"
)

func compileContext(t *testing.T, args map[string]string) *cli.Context {
	set := flag.NewFlagSet("compile", flag.ContinueOnError)
	set.String("scene", "sphere-line", "")
	set.String("strategy", "sah", "")
	set.Int("leaf-size", 1, "")
	set.Int("max-stack", bvh.DefaultMaxStackItems, "")
	set.String("out", "", "")
	for name, value := range args {
		if err := set.Set(name, value); err != nil {
			t.Fatal(err)
		}
	}
	return cli.NewContext(cli.NewApp(), set, nil)
}

func TestCompilerOptions(t *testing.T) {
	opts, err := compilerOptions(compileContext(t, map[string]string{
		"strategy":  "median",
		"leaf-size": "4",
		"max-stack": "64",
	}))
	if err != nil {
		t.Fatal(err)
	}

	if opts.BVH.Strategy != bvh.MedianSplit {
		t.Fatalf("expected strategy to be %s; got %s", bvh.MedianSplit, opts.BVH.Strategy)
	}
	if opts.BVH.LeafSize != 4 {
		t.Fatalf("expected leaf size to be 4; got %d", opts.BVH.LeafSize)
	}
	if opts.BVH.MaxStackItems != 64 {
		t.Fatalf("expected max stack items to be 64; got %d", opts.BVH.MaxStackItems)
	}
	if !opts.Bake {
		t.Fatal("expected compile command to bake scenes")
	}
}

func TestCompilerOptionErrors(t *testing.T) {
	specs := []map[string]string{
		{"strategy": "octree"},
		{"leaf-size": "0"},
		{"max-stack": "-1"},
	}

	for index, args := range specs {
		if _, err := compilerOptions(compileContext(t, args)); err == nil {
			t.Fatalf("[spec %d] expected an error for %v", index, args)
		}
	}
}

func TestCompileAndInspectScene(t *testing.T) {
	out := filepath.Join(t.TempDir(), "line.zip")
	if err := CompileScene(compileContext(t, map[string]string{"out": out})); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatalf("expected archive to be written; got %v", err)
	}

	sc, err := reader.ReadScene(out)
	if err != nil {
		t.Fatal(err)
	}
	if len(sc.BvhNodes) == 0 || len(sc.Spheres) == 0 {
		t.Fatalf("expected archive to contain spheres and bvh nodes; got %d spheres, %d nodes", len(sc.Spheres), len(sc.BvhNodes))
	}

	set := flag.NewFlagSet("inspect", flag.ContinueOnError)
	set.Bool("nodes", true, "")
	set.Int("limit", 0, "")
	if err := set.Parse([]string{out}); err != nil {
		t.Fatal(err)
	}
	if err := InspectScene(cli.NewContext(cli.NewApp(), set, nil)); err != nil {
		t.Fatalf("expected inspect to succeed; got %v", err)
	}
}

func TestCompileUnknownScene(t *testing.T) {
	ctx := compileContext(t, map[string]string{
		"scene": "missing",
		"out":   filepath.Join(t.TempDir(), "missing.zip"),
	})
	if err := CompileScene(ctx); err == nil {
		t.Fatal("expected an error for an unknown scene")
	}
}

func TestInspectRequiresArgument(t *testing.T) {
	set := flag.NewFlagSet("inspect", flag.ContinueOnError)
	if err := InspectScene(cli.NewContext(cli.NewApp(), set, nil)); err == nil {
		t.Fatal("expected an error when the scene argument is missing")
	}
}
