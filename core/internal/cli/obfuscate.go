package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewObfuscateCmd() *cobra.Command {
	var f runFlags

	cmd := &cobra.Command{
		Use:   "obfuscate",
		Short: "Assemble the tool arguments, prepare outputs and run the tool",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := f.run(cmd, false)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "run=%s status=%s outputs=%d\n", res.RunID, res.Status, len(res.Outputs))
			return nil
		},
	}

	f.register(cmd)
	cmd.Flags().BoolVar(&f.test, "test", false, "Dry run: show the arguments without touching any file")
	return cmd
}

func NewArgsCmd() *cobra.Command {
	var f runFlags

	cmd := &cobra.Command{
		Use:   "args",
		Short: "Print the tool arguments a run would use, one per line",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := f.run(cmd, true)
			if err != nil {
				return err
			}
			for _, a := range res.Arguments.Strings() {
				fmt.Fprintln(cmd.OutOrStdout(), a)
			}
			return nil
		},
	}

	f.register(cmd)
	return cmd
}
