package cli

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/dmitrijs2005/odsregistry/internal/client/api"
	"github.com/dmitrijs2005/odsregistry/internal/common"
)

// report prints err in user terms and returns it unchanged.
func (a *App) report(err error) error {
	var apiErr *api.Error
	switch {
	case errors.Is(err, api.ErrUnavailable):
		fmt.Fprintln(a.out, "Server unavailable, try again later.")
	case errors.Is(err, api.ErrUnauthorized):
		a.forget()
		fmt.Fprintln(a.out, "Not logged in or session expired. Run 'login'.")
	case errors.As(err, &apiErr) && apiErr.Message != "":
		fmt.Fprintln(a.out, apiErr.Message)
	default:
		fmt.Fprintf(a.out, "error: %v\n", err)
	}
	return err
}

// forget drops the local credentials without contacting the server.
func (a *App) forget() {
	a.loggedIn = false
	a.email = ""
	a.client.SetToken("")
	if err := a.tokens.Clear(); err != nil {
		fmt.Fprintf(a.out, "error removing saved token: %v\n", err)
	}
}

func (a *App) askCredentials() (string, []byte, error) {
	email, err := GetRequiredText(a.reader, "Enter email", a.out)
	if err != nil {
		return "", nil, err
	}
	password, err := GetPassword(a.out)
	if err != nil {
		return "", nil, err
	}
	return email, password, nil
}

func (a *App) Register(ctx context.Context) error {
	email, password, err := a.askCredentials()
	if err != nil {
		return a.report(err)
	}
	defer common.WipeByteArray(password)

	u, err := a.client.Register(ctx, email, string(password))
	if err != nil {
		return a.report(err)
	}

	fmt.Fprintf(a.out, "User %s registered (id %d).\n", u.Email, u.ID)
	return nil
}

func (a *App) Login(ctx context.Context) error {
	email, password, err := a.askCredentials()
	if err != nil {
		return a.report(err)
	}
	defer common.WipeByteArray(password)

	token, err := a.client.Login(ctx, email, string(password))
	if err != nil {
		return a.report(err)
	}

	// Session logins carry no token; the cookie jar holds the session.
	if token != "" {
		if err := a.tokens.Save(token); err != nil {
			fmt.Fprintf(a.out, "warning: token not saved: %v\n", err)
		}
	}

	a.loggedIn = true
	a.email = email
	fmt.Fprintln(a.out, "Login successful.")
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	err := a.client.Logout(ctx)
	a.forget()
	if err != nil && !errors.Is(err, api.ErrUnauthorized) {
		return a.report(err)
	}
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

func (a *App) RegisterCompany(ctx context.Context) error {
	var req api.CompanyRequest

	prompts := []struct {
		text     string
		dst      *string
		required bool
	}{
		{"Company name", &req.Name, true},
		{"Contact", &req.Contact, true},
		{"Address", &req.Address, true},
		{"CNPJ", &req.CNPJ, true},
		{"Sector", &req.Area, true},
		{"ODS (sustainable development goal)", &req.ODS, true},
		{"Owner email (empty for your own account)", &req.Email, false},
	}

	for _, p := range prompts {
		var (
			v   string
			err error
		)
		if p.required {
			v, err = GetRequiredText(a.reader, p.text, a.out)
		} else {
			v, err = GetSimpleText(a.reader, p.text, a.out)
		}
		if err != nil {
			return a.report(err)
		}
		*p.dst = v
	}

	if req.Email == "" {
		req.Email = a.email
	}

	if err := a.client.RegisterCompany(ctx, req); err != nil {
		return a.report(err)
	}

	fmt.Fprintf(a.out, "Company %s registered.\n", req.Name)
	return nil
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

func (a *App) List(ctx context.Context) error {
	companies, err := a.client.ListCompanies(ctx)
	if err != nil {
		return a.report(err)
	}
	if len(companies) == 0 {
		fmt.Fprintln(a.out, "No companies registered.")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCNPJ\tNAME\tSECTOR\tPARTNER\tODS\tOWNER")
	for _, c := range companies {
		partner := "no"
		if c.IsPartner != 0 {
			partner = "yes"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			c.ID, c.CNPJ, c.Name, c.CompanySector, partner, orDash(c.ODSName), orDash(c.UserEmail))
	}
	return tw.Flush()
}

func (a *App) ListODS(ctx context.Context) error {
	categories, err := a.client.ListODS(ctx)
	if err != nil {
		return a.report(err)
	}
	if len(categories) == 0 {
		fmt.Fprintln(a.out, "No ODS registered.")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tODS\tCOMPANIES")
	for _, c := range categories {
		fmt.Fprintf(tw, "%d\t%s\t%d\n", c.ID, c.Name, c.CompaniesQuantity)
	}
	return tw.Flush()
}

func (a *App) WhoAmI(ctx context.Context) error {
	st, err := a.client.WhoAmI(ctx)
	if err != nil {
		return a.report(err)
	}
	if !st.Valid {
		if a.loggedIn {
			a.forget()
		}
		fmt.Fprintln(a.out, "Not logged in.")
		return nil
	}
	if st.Email != "" {
		a.email = st.Email
	}
	fmt.Fprintf(a.out, "Logged in as %s.\n", a.email)
	return nil
}
