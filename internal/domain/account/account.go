package account

// Account is a read-only snapshot of one directory user entry, exactly as
// returned by the directory search. PwdLastSet is kept raw: depending on
// the server it is either a FILETIME tick count or an absolute timestamp,
// and normalization is the calculator's concern.
type Account struct {
	SAMAccountName string
	PwdLastSet     string
	Mail           string
	GivenName      string
	Surname        string
}

// DisplayName builds the salutation name: given name plus surname, with a
// generic fallback when the given name is absent.
func (a Account) DisplayName() string {
	first := a.GivenName
	if first == "" {
		first = "User"
	}
	if a.Surname == "" {
		return first
	}
	return first + " " + a.Surname
}
