// internal/infra/directory/ldap_client.go
package directory

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"strings"
	"time"

	"password_notifier/internal/domain/account"

	"github.com/go-ldap/ldap/v3"
)

const userFilter = "(objectClass=user)"

var searchAttributes = []string{"sAMAccountName", "pwdLastSet", "mail", "givenName", "sn"}

// Options configure the LDAP directory client.
type Options struct {
	ServerURL string // e.g. "ldaps://dc01.example.com:636"
	BindUser  string
	BindPass  string
	BaseDN    string
	CACert    string // optional path to a PEM CA bundle for LDAPS
}

// LDAPRepository implements account.Repository against an LDAP/Active
// Directory server. Each Search dials a fresh connection: the notifier is
// a single-pass batch job and has no use for a persistent session.
type LDAPRepository struct {
	opts Options
}

func NewLDAPRepository(opts Options) *LDAPRepository {
	return &LDAPRepository{opts: opts}
}

func (r *LDAPRepository) connect() (*ldap.Conn, error) {
	var dialOpts []ldap.DialOpt
	if r.opts.CACert != "" {
		pem, err := os.ReadFile(r.opts.CACert)
		if err != nil {
			return nil, fmt.Errorf("could not read LDAP CA certificate %s: %w", r.opts.CACert, err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("no certificates parsed from %s", r.opts.CACert)
		}
		dialOpts = append(dialOpts, ldap.DialWithTLSConfig(&tls.Config{RootCAs: pool}))
	}

	url := r.opts.ServerURL
	if !strings.Contains(url, "://") {
		url = "ldaps://" + url
	}

	conn, err := ldap.DialURL(url, dialOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to LDAP server %s: %w", r.opts.ServerURL, err)
	}

	if err := conn.Bind(r.opts.BindUser, r.opts.BindPass); err != nil {
		conn.Close()
		return nil, fmt.Errorf("LDAP bind failed for %s: %w", r.opts.BindUser, err)
	}
	return conn, nil
}

// Search queries all user-class objects under the base DN and maps them
// to account snapshots, preserving server order. Connection or bind
// failures propagate; they are fatal to the run.
func (r *LDAPRepository) Search(ctx context.Context) ([]account.Account, error) {
	conn, err := r.connect()
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		conn.SetTimeout(time.Until(deadline))
	}

	req := ldap.NewSearchRequest(
		r.opts.BaseDN,
		ldap.ScopeWholeSubtree,
		ldap.NeverDerefAliases,
		0, 0, false,
		userFilter,
		searchAttributes,
		nil,
	)

	res, err := conn.Search(req)
	if err != nil {
		return nil, fmt.Errorf("LDAP search under %s failed: %w", r.opts.BaseDN, err)
	}

	accounts := make([]account.Account, 0, len(res.Entries))
	for _, entry := range res.Entries {
		accounts = append(accounts, account.Account{
			SAMAccountName: entry.GetAttributeValue("sAMAccountName"),
			PwdLastSet:     entry.GetAttributeValue("pwdLastSet"),
			Mail:           entry.GetAttributeValue("mail"),
			GivenName:      entry.GetAttributeValue("givenName"),
			Surname:        entry.GetAttributeValue("sn"),
		})
	}
	return accounts, nil
}
