//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
)

const (
	binary    = "bin/shadows"
	shaderDir = "assets/shaders"
)

// Default builds the demo.
var Default = Build

// Build compiles the demo into bin/.
func Build() error {
	_, err := executeCmd("go", withArgs("build", "-o", binary, "./cmd/shadows"), withStream())
	return err
}

// Test runs every package test.
func Test() error {
	_, err := executeCmd("go", withArgs("test", "./..."), withStream())
	return err
}

// Vet runs go vet.
func Vet() error {
	_, err := executeCmd("go", withArgs("vet", "./..."), withStream())
	return err
}

// Run builds and starts the demo.
func Run() error {
	mg.Deps(Build)
	_, err := executeCmd(binary, withStream())
	return err
}

type Shaders mg.Namespace

// Validate compiles every shader program the demo can build with
// glslangValidator.
func (Shaders) Validate() error {
	for _, p := range shaderPrograms() {
		// The files carry no #version line; the loader prepends it.
		args := append([]string{"--glsl-version", "460", "-l"}, p.defines...)
		for _, f := range append(p.vertex, p.fragment...) {
			args = append(args, filepath.Join(shaderDir, f))
		}
		if _, err := executeCmd("glslangValidator", withArgs(args...)); err != nil {
			return fmt.Errorf("%s: %w", p.name, err)
		}
	}
	fmt.Println("all shader programs link")
	return nil
}

// List prints the shader files found on disk.
func (Shaders) List() error {
	entries, err := os.ReadDir(shaderDir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if ext := filepath.Ext(e.Name()); ext == ".vert" || ext == ".frag" {
			fmt.Println(strings.TrimSuffix(e.Name(), ext), ext)
		}
	}
	return nil
}

type shaderProgram struct {
	name     string
	vertex   []string
	fragment []string
	defines  []string
}

// shaderPrograms mirrors the combinations the renderer selects.
func shaderPrograms() []shaderProgram {
	lambert := func(name string, frags []string, defines ...string) shaderProgram {
		return shaderProgram{
			name:     name,
			vertex:   []string{"lambertian.vert"},
			fragment: append([]string{"lambertian.frag"}, frags...),
			defines:  defines,
		}
	}
	pcf := []string{"sampling.frag", "pcf_shadow_map.frag"}
	pcss := []string{"sampling.frag", "pcss_shadow_map.frag"}

	programs := []shaderProgram{
		lambert("normal", []string{"normal_shadow_map.frag"}),
		lambert("pcf grid", pcf, "-DSAMPLING_MODE_GRID=1"),
		lambert("pcf vogel", pcf, "-DSAMPLING_MODE_VOGEL=1"),
		lambert("pcss grid", pcss, "-DSAMPLING_MODE_GRID=1"),
		lambert("vsm", []string{"sampling.frag", "vsm_shadow_map.frag"}),
		{name: "shadow map", vertex: []string{"shadow_map.vert"}, fragment: []string{"shadow_map.frag"}},
		{name: "shadow map vsm", vertex: []string{"shadow_map.vert"}, fragment: []string{"shadow_map_vsm.frag"}},
	}
	for _, n := range []string{"25", "32", "64", "128"} {
		programs = append(programs,
			lambert("pcf poisson "+n, pcf, "-DSAMPLING_MODE_POISSON=1", "-DPOISSON_"+n+"=1"),
			lambert("pcss poisson "+n, pcss, "-DSAMPLING_MODE_POISSON=1", "-DPOISSON_"+n+"=1"),
		)
	}
	for _, n := range []string{"3", "5", "7", "9", "11", "13"} {
		programs = append(programs, shaderProgram{
			name:     "gaussian blur " + n,
			vertex:   []string{"gaussian_blur.vert"},
			fragment: []string{"gaussian_blur.frag", "sampling.frag"},
			defines:  []string{"-DGAUSSIAN_" + n + "=1"},
		})
	}
	return programs
}
