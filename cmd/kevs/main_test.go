package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kevs-vm/kevs/bytecode"
	"github.com/kevs-vm/kevs/errz"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(append([]string{"--no-color"}, args...))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.Nil(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestRootRunsFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "main.kev", "x = 2 + 3 * 4; Println(x);")
	out, err := execute(t, "--file", path)
	require.Nil(t, err)
	require.Equal(t, "14\n", out)
}

func TestRootDebug(t *testing.T) {
	path := writeFile(t, t.TempDir(), "main.kev", "x = 1; Println(x);")
	out, err := execute(t, "--file", path, "--debug")
	require.Nil(t, err)
	expected := strings.Join([]string{
		"0  LOAD_LITERAL r0, 1",
		"1  COPY_REGISTER r1, r0",
		"2  SYSCALL r1, 1",
		"3  COPY_REGISTER r0, r1",
		"Executing...",
		"0  LOAD_LITERAL r0, 1",
		"1  COPY_REGISTER r1, r0",
		"2  SYSCALL r1, 1",
		"1",
		"3  COPY_REGISTER r0, r1",
	}, "\n") + "\n"
	require.Equal(t, expected, out)
}

func TestRunCommand(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "lib.kev", "fn greet() { Println(\"hi\"); }")
	path := writeFile(t, dir, "main.kev", "load lib; greet();")
	out, err := execute(t, "run", path)
	require.Nil(t, err)
	require.Equal(t, "hi\n", out)
}

func TestLoadPath(t *testing.T) {
	libs := t.TempDir()
	writeFile(t, libs, "consts.kev", "k = 42;")
	path := writeFile(t, t.TempDir(), "main.kev", "load consts; Println(k);")

	_, err := execute(t, "run", path)
	require.NotNil(t, err)

	out, err := execute(t, "--load-path", libs, "run", path)
	require.Nil(t, err)
	require.Equal(t, "42\n", out)
}

func TestRunError(t *testing.T) {
	path := writeFile(t, t.TempDir(), "main.kev", "Println(1);\na = [1];\na[3] = 2;")
	out, err := execute(t, "run", path)
	require.NotNil(t, err)
	require.Equal(t, "1\n", out)
	require.True(t, errz.IsKind(err, errz.ErrBounds))
	require.NotEmpty(t, errorMessage(err))
}

func TestSyntaxErrorMessage(t *testing.T) {
	path := writeFile(t, t.TempDir(), "main.kev", "x = ;")
	_, err := execute(t, "run", path)
	require.NotNil(t, err)
	require.Contains(t, errorMessage(err), "main.kev")
}

func TestCompileAndRunImage(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "main.kev", `s = "ab" + "cd"; Println(s);`)
	out, err := execute(t, "compile", path)
	require.Nil(t, err)
	image := filepath.Join(dir, "main.kevc")
	require.Equal(t, image+"\n", out)

	data, err := os.ReadFile(image)
	require.Nil(t, err)
	program, err := bytecode.Unmarshal(data)
	require.Nil(t, err)
	require.Equal(t, 2, program.ConstantCount())

	out, err = execute(t, "run", image)
	require.Nil(t, err)
	require.Equal(t, "abcd\n", out)
}

func TestCompileOutputFlag(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "main.kev", "x = 1;")
	target := filepath.Join(dir, "out.kevc")
	_, err := execute(t, "compile", path, "-o", target)
	require.Nil(t, err)
	_, err = os.Stat(target)
	require.Nil(t, err)
}

func TestDisCommand(t *testing.T) {
	path := writeFile(t, t.TempDir(), "main.kev", "x = 1; Println(x);")

	out, err := execute(t, "dis", path, "--output", "listing")
	require.Nil(t, err)
	require.Equal(t, "0  LOAD_LITERAL r0, 1\n1  COPY_REGISTER r1, r0\n2  SYSCALL r1, 1\n3  COPY_REGISTER r0, r1\n", out)

	out, err = execute(t, "dis", path)
	require.Nil(t, err)
	require.Contains(t, out, "| OFFSET |")
	require.Contains(t, out, "Println")

	out, err = execute(t, "dis", path, "--output", "json")
	require.Nil(t, err)
	var decoded []map[string]any
	require.Nil(t, json.Unmarshal([]byte(out), &decoded))
	require.Len(t, decoded, 4)

	_, err = execute(t, "dis", path, "--output", "yaml")
	require.NotNil(t, err)
}

func TestBuiltinsCommand(t *testing.T) {
	out, err := execute(t, "builtins")
	require.Nil(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	// Header, three separators and one row per builtin, sorted by name.
	require.Len(t, lines, 7)
	require.Contains(t, lines[3], "Len")
	require.Contains(t, lines[4], "Print ")
	require.Contains(t, lines[5], "Println")
	require.Contains(t, lines[3], "dest, array")
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "consts.kev", "k = 5;")
	config := writeFile(t, dir, "kevs.yaml", "load-path:\n  - "+dir+"\n")
	path := writeFile(t, t.TempDir(), "main.kev", "load consts; Println(k);")

	out, err := execute(t, "--config", config, "run", path)
	require.Nil(t, err)
	require.Equal(t, "5\n", out)
}

func TestEnvironment(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "consts.kev", "k = 6;")
	path := writeFile(t, t.TempDir(), "main.kev", "load consts; Println(k);")
	t.Setenv("KEVS_LOAD_PATH", dir)

	out, err := execute(t, "run", path)
	require.Nil(t, err)
	require.Equal(t, "6\n", out)
}

func TestInvalidLogLevel(t *testing.T) {
	_, err := execute(t, "--log-level", "loud", "builtins")
	require.NotNil(t, err)
}

func TestErrorColor(t *testing.T) {
	require.Equal(t, "boom", red("boom", false))
	require.Contains(t, red("boom", true), "\x1b[31m")

	var buf bytes.Buffer
	require.False(t, colorEnabled(&buf, false))

	f, err := os.CreateTemp(t.TempDir(), "stderr")
	require.Nil(t, err)
	defer f.Close()
	require.False(t, colorEnabled(f, false))
	require.False(t, colorEnabled(os.Stderr, true))
}
