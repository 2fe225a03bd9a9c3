package main

import (
	"bytes"
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"
	"strings"
	"sync"
)

// Single board computers the SENtral is wired to over I2C, plus a desktop
// build for running against the emulator with -simulate.
var availableTargets = []target{
	{goos: "linux", goarch: "arm", goarm: "6", board: "Raspberry Pi Zero/1"},
	{goos: "linux", goarch: "arm", goarm: "7", board: "Raspberry Pi 2/3, BeagleBone"},
	{goos: "linux", goarch: "arm64", board: "Raspberry Pi 3/4/5 (64-bit OS)"},
	{goos: "linux", goarch: "amd64", board: "desktop, emulator only"},
}

type target struct {
	goos, goarch, goarm string
	board               string
}

func (t target) String() string {
	if t.goarm != "" {
		return fmt.Sprintf("%s-%s-v%s", t.goos, t.goarch, t.goarm)
	}
	return fmt.Sprintf("%s-%s", t.goos, t.goarch)
}

func (t target) env() []string {
	env := []string{"GOOS=" + t.goos, "GOARCH=" + t.goarch, "CGO_ENABLED=0"}
	if t.goarm != "" {
		env = append(env, "GOARM="+t.goarm)
	}
	return env
}

type buildResult struct {
	target target
	binary string
	output string
	err    error
}

func build(t target) buildResult {
	binary := fmt.Sprintf("./builds/%s-%s", basename, t)

	params := []string{"build", "-o", binary}
	if strip {
		params = append(params, "-trimpath", "-ldflags", "-s -w")
	}
	if tags != "" {
		params = append(params, "-tags", tags)
	}
	params = append(params, project)

	var out bytes.Buffer
	cmd := exec.Command("go", params...)
	cmd.Env = append(os.Environ(), t.env()...)
	cmd.Stdout = &out
	cmd.Stderr = &out

	err := cmd.Run()
	return buildResult{target: t, binary: binary, output: out.String(), err: err}
}

func selectTargets(selection string) ([]target, error) {
	if selection == "all" {
		return availableTargets, nil
	}
	var selected []target
next:
	for _, name := range strings.Split(selection, ",") {
		for _, t := range availableTargets {
			if t.String() == name {
				selected = append(selected, t)
				continue next
			}
		}
		return nil, fmt.Errorf("target not found: %s", name)
	}
	return selected, nil
}

var selection, project, basename, tags string
var strip bool

func main() {
	var names []string
	for _, t := range availableTargets {
		names = append(names, fmt.Sprintf("%s (%s)", t, t.board))
	}
	flag.StringVar(&selection, "platforms", "all", fmt.Sprintf(
		"comma-separated target platform list\navailable: %s", strings.Join(names, ", ")),
	)
	flag.StringVar(&project, "project", "./cmd/getinfo/", "choose project directory")
	flag.StringVar(&basename, "base", "sentral-getinfo", "base filename for output binaries")
	flag.StringVar(&tags, "tags", "", "comma-separated build tags")
	flag.BoolVar(&strip, "strip", false, "strip symbols and paths from binaries")
	flag.Parse()

	log.SetFlags(log.Ltime)

	targets, err := selectTargets(selection)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("building %s for %d targets", project, len(targets))

	results := make([]buildResult, len(targets))
	var wg sync.WaitGroup
	for i, t := range targets {
		wg.Add(1)
		go func(i int, t target) {
			defer wg.Done()
			results[i] = build(t)
		}(i, t)
	}
	wg.Wait()

	failed := 0
	for _, r := range results {
		if r.err == nil {
			log.Printf("%-16s ok:     %s", r.target, r.binary)
			continue
		}
		failed++
		log.Printf("%-16s failed: %s", r.target, r.err)
		if r.output != "" {
			fmt.Printf("======== %s ========\n%s", r.target, r.output)
		}
	}
	if failed > 0 {
		log.Printf("%d of %d builds failed", failed, len(results))
		os.Exit(1)
	}
}
