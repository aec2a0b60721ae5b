package launcher

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"go.uber.org/zap"
)

// Tool is the external whole-program transformation tool. A nil error means
// success, whatever the tool printed.
type Tool interface {
	Run(ctx context.Context, args []string) error
}

// ToolError wraps a failed tool invocation together with what the tool said.
type ToolError struct {
	Diagnostic string
	Err        error
}

func (e *ToolError) Error() string {
	if e.Diagnostic == "" {
		return fmt.Sprintf("obfuscation tool failed: %v", e.Err)
	}
	return fmt.Sprintf("obfuscation tool failed: %v: %s", e.Err, e.Diagnostic)
}

func (e *ToolError) Unwrap() error { return e.Err }

// JavaTool runs `java [JVMArgs] -jar ToolJar args...`.
type JavaTool struct {
	Java    string
	JVMArgs []string
	ToolJar string
	Log     *zap.Logger
}

func (t JavaTool) Command(args []string) []string {
	java := t.Java
	if java == "" {
		java = "java"
	}
	argv := make([]string, 0, len(t.JVMArgs)+len(args)+3)
	argv = append(argv, java)
	argv = append(argv, t.JVMArgs...)
	argv = append(argv, "-jar", t.ToolJar)
	return append(argv, args...)
}

func (t JavaTool) Run(ctx context.Context, args []string) error {
	if t.ToolJar == "" {
		return &ToolError{Err: fmt.Errorf("no tool jar configured")}
	}
	argv := t.Command(args)
	log := t.Log
	if log == nil {
		log = zap.NewNop()
	}
	log.Debug("launching tool", zap.Strings("argv", argv))

	out, err := runCmd(ctx, argv[0], argv[1:]...)
	if len(out) > 0 {
		log.Debug("tool output", zap.ByteString("output", out))
	}
	if err != nil {
		return &ToolError{Diagnostic: strings.TrimSpace(string(out)), Err: err}
	}
	return nil
}

func runCmd(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	err := cmd.Run()
	return out.Bytes(), err
}
