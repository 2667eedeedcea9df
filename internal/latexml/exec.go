package latexml

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os/exec"
	"sync"

	"github.com/alnah/go-tex2html/internal/process"
)

// LineFunc receives one line of converter output without its newline.
type LineFunc func(line string)

// CommandRunner abstracts command execution to enable testing without latexmlc.
type CommandRunner interface {
	Run(ctx context.Context, dir, name string, args []string, stdout, stderr LineFunc) error
}

// ExecRunner implements CommandRunner using os/exec. The process runs in its
// own group so cancellation also stops the helpers latexmlc spawns.
type ExecRunner struct{}

// maxLine bounds a single output line. LaTeXML can print long lines when
// it dumps a malformed token list.
const maxLine = 1 << 20

// Run starts name in dir and streams both output pipes until it exits.
func (ExecRunner) Run(ctx context.Context, dir, name string, args []string, stdout, stderr LineFunc) error {
	cmd := exec.CommandContext(ctx, name, args...) // #nosec G204 -- binary comes from configuration
	cmd.Dir = dir
	process.Configure(cmd)

	outPipe, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("creating stdout pipe: %w", err)
	}
	errPipe, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("creating stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting command: %w", err)
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go streamLines(&wg, outPipe, stdout)
	go streamLines(&wg, errPipe, stderr)
	// Pipes must be drained before Wait closes them.
	wg.Wait()

	return cmd.Wait()
}

func streamLines(wg *sync.WaitGroup, r io.Reader, fn LineFunc) {
	defer wg.Done()

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLine)
	for sc.Scan() {
		if fn != nil {
			fn(sc.Text())
		}
	}
	// Drain the rest if a line overflowed so the process never blocks on a full pipe.
	_, _ = io.Copy(io.Discard, r)
}
