package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/banshee-data/gptrack/internal/trackdat"
)

// ErrVerificationFailed is returned by verify --strict when any file fails.
var ErrVerificationFailed = errors.New("verification failed")

func newVerifyCmd(a *app) *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "verify FILE...",
		Short: "Check the checksum trailer and structural sanity of track files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			strict = strict || a.cfg.GetRequireChecksum()
			if strict && a.cfg.GetChecksumAlgorithm() == "none" {
				return fmt.Errorf("--strict needs a checksum algorithm (--checksum %s)", trackdat.ChecksumAlgorithmNames()[0])
			}
			failed := 0
			for _, path := range args {
				if !a.verifyOne(path, strict) {
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files: %w", failed, len(args), ErrVerificationFailed)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "fail unless every checksum is present and matches")
	return cmd
}

// verifyOne prints the result for path and reports whether it passed.
func (a *app) verifyOne(path string, strict bool) bool {
	def, _, err := a.decodeFile(path)
	if err != nil {
		fmt.Fprintf(a.out, "%s: FAIL decode: %v\n", path, err)
		return false
	}
	ok := true
	status := checksumStatus(def.Checksum)
	if strict && !def.Checksum.Verified() {
		ok = false
	}
	if err := def.Validate(); err != nil {
		a.logger.Warn("track failed validation", zap.String("path", path), zap.Error(err))
		status += "; invalid: " + err.Error()
		ok = false
	}
	result := "OK"
	if !ok {
		result = "FAIL"
	}
	fmt.Fprintf(a.out, "%s: %s %s\n", path, result, status)
	return ok
}
