package identity

import (
	"errors"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/smartgrade/smartgrade/core"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// Directory looks up accounts able to log in.
type Directory interface {
	// Authenticate returns ErrInvalidCredentials for an unknown email as well as for a wrong password.
	Authenticate(email, password string) (Identity, error)
}

type account struct {
	Identity
	passwordHash []byte
}

func (a *account) setPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	a.passwordHash = hash
	return nil
}

func (a *account) checkPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(a.passwordHash, []byte(pwd))
}

// DemoDirectory holds the two fixed demo accounts.
type DemoDirectory struct {
	once     sync.Once
	err      error
	accounts map[string]*account // {email: account}
}

var _ Directory = (*DemoDirectory)(nil)

// Demo credentials
const (
	DemoTeacherEmail = "teacher@example.com"
	DemoStudentEmail = "student@example.com"
	DemoPassword     = "password"
)

var demoIdentities = []Identity{
	{ID: "1", Name: "John Smith", Email: DemoTeacherEmail, Role: RoleTeacher},
	{ID: "2", Name: "Jane Doe", Email: DemoStudentEmail, Role: RoleStudent},
}

func NewDemoDirectory() *DemoDirectory {
	return &DemoDirectory{}
}

// hashing is slow; only done on first use
func (d *DemoDirectory) load() {
	d.accounts = make(map[string]*account, len(demoIdentities))
	for _, ident := range demoIdentities {
		acc := &account{Identity: ident}
		if err := acc.setPassword(DemoPassword); err != nil {
			d.err = err
			return
		}
		d.accounts[ident.Email] = acc
	}
}

func (d *DemoDirectory) Authenticate(email, password string) (Identity, error) {
	d.once.Do(d.load)
	if d.err != nil {
		return Identity{}, d.err
	}

	acc, ok := d.accounts[core.CleanString(email, true /* lower */)]
	if !ok {
		return Identity{}, ErrInvalidCredentials
	}
	if err := acc.checkPassword(password); err != nil {
		return Identity{}, ErrInvalidCredentials
	}
	return acc.Identity, nil
}
