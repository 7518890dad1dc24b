// Package scenarios holds the built-in verification cases for the authentication forms
package scenarios

import (
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"authcheck-cli/auth"
	"authcheck-cli/testrunner"
)

// Group names
const (
	GroupRegistration = "Registration"
	GroupLogin        = "Login"
	GroupRecovery     = "Recovery"
)

// Action names a service flow
type Action string

const (
	ActionRegister      Action = "register"
	ActionLogin         Action = "login"
	ActionRequestReset  Action = "request_password_reset"
	ActionResetPassword Action = "reset_password"
)

// Payload is the form data passed to an action
type Payload map[string]string

// ActionFunc invokes one flow of the service
type ActionFunc func(svc *auth.Service, p Payload) (auth.Response, error)

// Actions maps every action to the flow it drives
var Actions = map[Action]ActionFunc{
	ActionRegister: func(svc *auth.Service, p Payload) (auth.Response, error) {
		return svc.Register(auth.RegisterRequest{Email: p["email"], Username: p["username"], Password: p["password"]})
	},
	ActionLogin: func(svc *auth.Service, p Payload) (auth.Response, error) {
		return svc.Login(auth.LoginRequest{Email: p["email"], Password: p["password"]})
	},
	ActionRequestReset: func(svc *auth.Service, p Payload) (auth.Response, error) {
		return svc.RequestPasswordReset(p["email"])
	},
	ActionResetPassword: func(svc *auth.Service, p Payload) (auth.Response, error) {
		return svc.ResetPassword(auth.ResetRequest{Email: p["email"], Code: p["code"], NewPassword: p["new_password"]})
	},
}

// Seed is an account provisioned before the action runs
type Seed struct {
	Email        string
	Username     string
	Password     string
	Inactive     bool
	RecoveryCode string
}

func seedUser(email, username, password string) Seed {
	return Seed{Email: email, Username: username, Password: password}
}

// Check runs after a successful action with the response payload and the case's store
type Check func(payload map[string]string, store auth.UserStore) error

type scenario struct {
	name        string
	group       string
	action      Action
	payload     Payload
	seed        []Seed
	expectError string
	after       Check
}

// Build returns all built-in cases in their fixed order
func Build() []testrunner.Case {
	var all []scenario
	all = append(all, registrationScenarios()...)
	all = append(all, loginScenarios()...)
	all = append(all, recoveryScenarios()...)

	cases := make([]testrunner.Case, 0, len(all))
	for _, sc := range all {
		cases = append(cases, testrunner.Case{Name: sc.name, Group: sc.group, Unit: sc.unit()})
	}
	return cases
}

// Registry exposes the built-in cases to the coordinator
func Registry() testrunner.Registry {
	return testrunner.RegistryFunc(func() ([]testrunner.Case, error) {
		return Build(), nil
	})
}

func (sc scenario) unit() testrunner.Unit {
	return func() error {
		store, err := auth.OpenIsolated()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := provision(store, sc.seed); err != nil {
			return err
		}

		action, ok := Actions[sc.action]
		if !ok {
			return errors.Errorf("unknown action %q", sc.action)
		}
		svc := auth.NewService(store, auth.WithHashCost(bcrypt.MinCost))
		resp, err := action(svc, sc.payload)

		if sc.expectError != "" {
			if err == nil {
				return testrunner.Fail("expected an error, but the operation succeeded")
			}
			ruleErr, ok := auth.AsRuleError(err)
			if !ok {
				return err
			}
			if !strings.Contains(ruleErr.Message, sc.expectError) {
				return testrunner.Failf("expected %q, got %q", sc.expectError, ruleErr.Message)
			}
			return nil
		}

		if err != nil {
			return err
		}
		if err := testrunner.Assert(resp.OK, "response must be successful"); err != nil {
			return err
		}
		if sc.after != nil {
			return sc.after(resp.Payload, store)
		}
		return nil
	}
}

func provision(store auth.UserStore, seeds []Seed) error {
	for _, s := range seeds {
		hash, err := auth.HashPassword(s.Password, bcrypt.MinCost)
		if err != nil {
			return err
		}
		user := &auth.User{
			Email:        s.Email,
			Username:     s.Username,
			PasswordHash: hash,
			Active:       !s.Inactive,
			RecoveryCode: s.RecoveryCode,
		}
		if err := store.SaveUser(user); err != nil {
			return errors.WithMessage(err, "seed failed")
		}
	}
	return nil
}

func passwordIs(email, password string) Check {
	return func(_ map[string]string, store auth.UserStore) error {
		user, err := store.UserByEmail(email)
		if err != nil {
			return testrunner.Fail("user must exist")
		}
		return testrunner.Assert(auth.VerifyPassword(password, user.PasswordHash), "password must be updated")
	}
}

func recoveryCodeIsIssued(email string) Check {
	return func(payload map[string]string, store auth.UserStore) error {
		user, err := store.UserByEmail(email)
		if err != nil {
			return testrunner.Fail("user must exist")
		}
		return testrunner.Assert(user.RecoveryCode == payload["code"], "recovery code must be replaced")
	}
}
