package driver

import (
	"fmt"
	"os"
	"os/exec"
)

// Toolchain is the narrow interface between the driver and the external
// C compiler/linker and the binary it produces. The core pipeline
// (Compile/Emit) never touches a process; spawning one is explicitly the
// driver's job (spec §4.7), kept behind this interface so tests can swap
// in a fake compiler instead of shelling out.
type Toolchain interface {
	// CompileC compiles cPath into the binary at outPath under opts
	// (cc/target/sysroot/linker/max-speed/OpenMP/PGO flag composition;
	// BoltUse is not passed to the compiler).
	CompileC(cPath, outPath string, opts Options) error
	// Run executes the binary at path with args, returning its exit code.
	Run(path string, args []string) (int, error)
}

// ExecToolchain shells out to a real C compiler via os/exec; it is the
// only place in this module that spawns a process.
type ExecToolchain struct{}

func (ExecToolchain) CompileC(cPath, outPath string, opts Options) error {
	args := ccArgs(cPath, outPath, opts)
	cmd := exec.Command(opts.CC, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s %v: %w", opts.CC, args, err)
	}
	return nil
}

func (ExecToolchain) Run(path string, args []string) (int, error) {
	cmd := exec.Command(path, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin
	err := cmd.Run()
	if exitErr, ok := err.(*exec.ExitError); ok {
		return exitErr.ExitCode(), nil
	}
	if err != nil {
		return 1, err
	}
	return 0, nil
}

// ccArgs composes the C compiler command line from opts, mirroring spec
// §6's flag set: target triple, sysroot, linker, max-speed, OpenMP and
// PGO phases all fold into toolchain flags rather than compiler-internal
// state. opts.BoltUse adds no flag.
func ccArgs(cPath, outPath string, opts Options) []string {
	args := []string{cPath, "-o", outPath}
	if opts.Target != "" {
		args = append(args, "--target="+opts.Target)
	}
	if opts.Sysroot != "" {
		args = append(args, "--sysroot="+opts.Sysroot)
	}
	if opts.Linker != "" {
		args = append(args, "-fuse-ld="+opts.Linker)
	}
	if opts.MaxSpeed {
		args = append(args, "-O3", "-flto")
	} else {
		args = append(args, "-O2")
	}
	if opts.OpenMP {
		args = append(args, "-fopenmp")
	}
	if opts.PGOGenerate {
		args = append(args, "-fprofile-generate")
	}
	if opts.PGOUse != "" {
		args = append(args, "-fprofile-use="+opts.PGOUse)
	}
	return args
}
