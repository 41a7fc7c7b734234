package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stackpng/stackpng/internal/config"
	"github.com/stackpng/stackpng/internal/imaging"
	"github.com/stackpng/stackpng/internal/inputs"
)

// buildError maps a pipeline failure to an exit error naming the flag
// that would let the build proceed.
func buildError(err error) *ExitError {
	e := WrapExitError(ExitFailure, "could not build animation", err)

	var dimErr *imaging.DimensionMismatchError
	var aspectErr *imaging.AspectRatioMismatchError
	switch {
	case errors.As(err, &dimErr):
		e.WithHint(fmt.Sprintf("rerun with --resize (-r) to scale every frame to %s", dimErr.Target))
	case errors.As(err, &aspectErr):
		e.WithHint(fmt.Sprintf("rerun with --resize --ignore-aspect-ratio (-r -a) to stretch every frame to exactly %s", aspectErr.Target))
	}
	return e
}

func inputError(err error) *ExitError {
	e := WrapExitError(ExitCommandError, "invalid input", err)

	var invalidErr *inputs.InvalidFileError
	if errors.As(err, &invalidErr) {
		e.WithHint("rerun with --ignore-invalid (-i) to skip files that are not PNGs")
	}
	return e
}

// errorCode classifies err for JSON output.
func errorCode(err error) string {
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.ErrCode != "" {
		return exitErr.ErrCode
	}

	var (
		decodeErr  *imaging.DecodeError
		dimErr     *imaging.DimensionMismatchError
		aspectErr  *imaging.AspectRatioMismatchError
		schemaErr  *config.SchemaError
		invalidErr *inputs.InvalidFileError
		mixedErr   *inputs.MixedInputError
		missingErr *inputs.MissingPathError
	)
	switch {
	case errors.As(err, &decodeErr):
		return ErrCodeDecode
	case errors.As(err, &dimErr):
		return ErrCodeDimension
	case errors.As(err, &aspectErr):
		return ErrCodeAspect
	case errors.As(err, &schemaErr):
		return ErrCodeConfig
	case errors.As(err, &invalidErr), errors.As(err, &mixedErr), errors.As(err, &missingErr),
		errors.Is(err, inputs.ErrNoInputs):
		return ErrCodeInput
	case errors.Is(err, errOverwriteDeclined), errors.Is(err, errNeedsConfirmation):
		return ErrCodeOverwrite
	case GetExitCode(err) == ExitCommandError:
		return ErrCodeCommand
	default:
		return ErrCodeFailure
	}
}

// reportError writes err in the selected output format. JSON errors go to
// stdout so the response stays a single document; text errors go to stderr.
func reportError(cmd *cobra.Command, opts *RootOptions, err error) {
	var hint string
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		hint = exitErr.Hint
	}

	if opts.Format == "json" {
		var details any
		if hint != "" {
			details = map[string]string{"hint": hint}
		}
		formatter := &OutputFormatter{Format: "json", Writer: cmd.OutOrStdout()}
		_ = formatter.Error(errorCode(err), err.Error(), details)
		return
	}

	con := newConsole(cmd.ErrOrStderr(), opts.colorMode())
	con.Failuref("error: %v", err)
	if hint != "" {
		con.Noticef("hint: %s", hint)
	}
}
