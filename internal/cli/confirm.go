package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var (
	errOverwriteDeclined = errors.New("existing files were not overwritten")
	errNeedsConfirmation = errors.New("refusing to overwrite existing files without confirmation; rerun with --yes")
)

// confirmOverwrite asks before replacing paths. An approved run never
// prompts; a non-interactive one never proceeds.
func confirmOverwrite(ctx context.Context, in io.Reader, out io.Writer, approved, interactive bool, paths []string) error {
	if approved || len(paths) == 0 {
		return nil
	}
	if !interactive {
		return errNeedsConfirmation
	}

	fmt.Fprintf(out, "Overwrite %s? [y/N] ", strings.Join(paths, " and "))

	type result struct {
		line string
		err  error
	}
	read := make(chan result, 1)
	go func() {
		line, err := bufio.NewReader(in).ReadString('\n')
		read <- result{line: line, err: err}
	}()

	var res result
	select {
	case <-ctx.Done():
		closeInput(in)
		fmt.Fprintln(out)
		return ctx.Err()
	case res = <-read:
	}
	if res.err != nil && !errors.Is(res.err, io.EOF) {
		return res.err
	}

	switch strings.ToLower(strings.TrimSpace(res.line)) {
	case "y", "yes":
		return nil
	default:
		return errOverwriteDeclined
	}
}

// closeInput unblocks the pending read after a cancellation. The process
// stdin is left open: its reader stays blocked until the process exits.
func closeInput(in io.Reader) {
	rc, ok := in.(io.ReadCloser)
	if !ok {
		return
	}
	if f, ok := in.(*os.File); ok && f.Fd() == os.Stdin.Fd() {
		return
	}
	_ = rc.Close()
}
