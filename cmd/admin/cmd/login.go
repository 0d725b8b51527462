package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

var (
	loginEmail    string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the dashboard",
	Long: `Exchanges email and password for a session and stores it. Missing values
are prompted for. If an earlier command was interrupted because there was no
session, it is run again after a successful login.`,
	Args: cobra.NoArgs,
	RunE: runLogin,
}

func init() {
	rootCmd.AddCommand(loginCmd)
	loginCmd.Flags().StringVarP(&loginEmail, "email", "e", "", "Account email")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "Account password")
}

func runLogin(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	prompt := bufio.NewReader(app.in)

	email, err := valueOrPrompt(app.out, prompt, loginEmail, "Email: ")
	if err != nil {
		return err
	}
	password, err := valueOrPrompt(app.out, prompt, loginPassword, "Password: ")
	if err != nil {
		return err
	}

	user, err := app.manager.Login(ctx, email, password)
	if err != nil {
		if msg := app.manager.State().Snapshot().Error; msg != "" {
			return fmt.Errorf("login failed: %s", msg)
		}
		return err
	}
	fmt.Fprintf(app.out, "logged in as %s (%s)\n", user.Email, user.Role)

	from, err := app.locations.Recall(ctx)
	if err != nil {
		return err
	}
	if err := app.locations.Forget(ctx); err != nil {
		return err
	}
	return continueAt(cmd, app.guard.AfterLogin(from))
}

// continueAt runs the command at dest when it needs no arguments.
func continueAt(cmd *cobra.Command, dest string) error {
	if dest == app.guard.DefaultRoute() {
		return nil
	}
	next, _, err := cmd.Root().Find(strings.Split(strings.Trim(dest, "/"), "/"))
	if err != nil || next == cmd || next.RunE == nil || next.ValidateArgs(nil) != nil {
		fmt.Fprintf(app.out, "continue with %s\n", commandLine(dest))
		return nil
	}

	fmt.Fprintf(app.out, "continuing with %s\n", commandLine(dest))
	next.SetContext(cmd.Context())
	app.navigator.setLocation(dest)
	return next.RunE(next, nil)
}

func valueOrPrompt(out io.Writer, in *bufio.Reader, value, label string) (string, error) {
	if value != "" {
		return value, nil
	}
	fmt.Fprint(out, label)
	line, err := in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("reading %s: %w", strings.TrimSuffix(strings.ToLower(label), ": "), err)
	}
	return strings.TrimSpace(line), nil
}
