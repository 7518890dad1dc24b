package scenarios

func loginScenarios() []scenario {
	base := seedUser("auth@example.com", "authuser", "LoginPass1")

	login := func(name, email, password string, seed ...Seed) scenario {
		return scenario{
			name:    "Login: " + name,
			group:   GroupLogin,
			action:  ActionLogin,
			payload: Payload{"email": email, "password": password},
			seed:    seed,
		}
	}
	loginErr := func(name, email, password, expect string, seed ...Seed) scenario {
		sc := login(name, email, password, seed...)
		sc.expectError = expect
		return sc
	}

	inactive := seedUser("inactive@example.com", "inactive", "LoginPass1")
	inactive.Inactive = true

	return []scenario{
		login("success", "auth@example.com", "LoginPass1", base),
		loginErr("wrong password", "auth@example.com", "WrongPass", "wrong password", base),
		loginErr("unknown user", "missing@example.com", "SomePass1", "user not found", base),
		loginErr("empty password", "auth@example.com", "", "enter a password", base),
		loginErr("invalid email", "badmail", "LoginPass1", "invalid email", base),
		loginErr("inactive user", "inactive@example.com", "LoginPass1", "inactive", inactive),
		login("another user", "second@example.com", "SecondPass1", seedUser("second@example.com", "second", "SecondPass1")),
		loginErr("spaces around email", " auth@example.com ", "LoginPass1", "invalid email", base),
		loginErr("password is case sensitive", "auth@example.com", "loginpass1", "wrong password", base),
		login("another active user", "active2@example.com", "Another1", seedUser("active2@example.com", "active2", "Another1")),
		login("uppercase email", "UPPER@EXAMPLE.COM", "UpperPass1", seedUser("UPPER@EXAMPLE.COM", "upperlogin", "UpperPass1")),
		loginErr("empty store", "nosuch@example.com", "NoSeed123", "user not found"),
		login("retry after an error", "retry@example.com", "RetryPass1", seedUser("retry@example.com", "retryuser", "RetryPass1")),
		login("long email", "very.long.email.address@example-domain.com", "LongMail1",
			seedUser("very.long.email.address@example-domain.com", "longmail", "LongMail1")),
		login("password set by recovery still works", "reset@example.com", "NewPass11", seedUser("reset@example.com", "resetuser", "NewPass11")),
	}
}
