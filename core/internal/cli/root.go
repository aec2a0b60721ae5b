package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"jarshrink/core/internal/version"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "jarshrink",
		Short:         "Shrink and obfuscate a project's archives with ProGuard",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(NewObfuscateCmd())
	cmd.AddCommand(NewArgsCmd())
	cmd.AddCommand(NewVersionCmd())

	cmd.SetVersionTemplate(fmt.Sprintf("%s (%s/%s)\n", version.Version, runtime.GOOS, runtime.GOARCH))
	cmd.Version = version.Version

	return cmd
}
