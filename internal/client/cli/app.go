package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/odsregistry/internal/client/api"
	"github.com/dmitrijs2005/odsregistry/internal/client/config"
	"github.com/dmitrijs2005/odsregistry/internal/filex"
	"github.com/dmitrijs2005/odsregistry/internal/flagx"
)

// apiClient is the part of api.Client the commands use.
type apiClient interface {
	SetToken(token string)
	Token() string
	Register(ctx context.Context, email, password string) (*api.User, error)
	Login(ctx context.Context, email, password string) (string, error)
	Logout(ctx context.Context) error
	RegisterCompany(ctx context.Context, req api.CompanyRequest) error
	ListCompanies(ctx context.Context) ([]api.Company, error)
	ListODS(ctx context.Context) ([]api.Category, error)
	WhoAmI(ctx context.Context) (*api.Status, error)
}

type App struct {
	config   *config.Config
	client   apiClient
	tokens   tokenStore
	reader   *bufio.Reader
	out      io.Writer
	loggedIn bool
	email    string
}

// NewApp prepares the state directory under $HOME and restores a
// previously saved token, if any.
func NewApp(c *config.Config) (*App, error) {
	dir, err := filex.EnsureHomeSubDir(c.StateDir)
	if err != nil {
		return nil, fmt.Errorf("error preparing state dir: %w", err)
	}

	a := &App{
		config: c,
		client: api.NewClient(c.ServerURL, c.RequestTimeout),
		tokens: newFileTokenStore(dir),
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}

	if err := a.restoreToken(); err != nil {
		return nil, fmt.Errorf("error reading saved token: %w", err)
	}

	return a, nil
}

func (a *App) restoreToken() error {
	tok, err := a.tokens.Load()
	if err != nil {
		return err
	}
	if tok != "" {
		a.client.SetToken(tok)
		a.loggedIn = true
	}
	return nil
}

func (a *App) isLoggedIn() bool {
	return a.loggedIn
}

func (a *App) status() string {
	switch {
	case !a.loggedIn:
		return "guest"
	case a.email != "":
		return a.email
	default:
		return "logged in"
	}
}

// valueFlags are the flags whose next token is a value, not a command.
var valueFlags = append([]string{"-c", "-config"}, config.ClientFlags...)

// Run executes the command named in args, or starts the REPL when args
// carries no command word.
func (a *App) Run(ctx context.Context, args []string) error {
	words := flagx.Positional(args, valueFlags)
	if len(words) == 0 {
		fmt.Fprintln(a.out, "ODS registry CLI (type 'help' for commands)")
		runREPL(ctx, a, a.status, a.reader)
		return nil
	}

	handled, err := dispatch(ctx, a, words[0])
	if !handled {
		return fmt.Errorf("unknown command: %s", words[0])
	}
	return err
}
