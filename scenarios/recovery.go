package scenarios

func recoveryScenarios() []scenario {
	withCode := func(s Seed, code string) Seed {
		s.RecoveryCode = code
		return s
	}
	plain := seedUser("recover@example.com", "recoveruser", "Recover99")
	pending := withCode(plain, "abcd12")

	request := func(name, email string, seed ...Seed) scenario {
		return scenario{
			name:    "Recovery: " + name,
			group:   GroupRecovery,
			action:  ActionRequestReset,
			payload: Payload{"email": email},
			seed:    seed,
		}
	}
	reset := func(name string, payload Payload, seed ...Seed) scenario {
		return scenario{
			name:    "Recovery: " + name,
			group:   GroupRecovery,
			action:  ActionResetPassword,
			payload: payload,
			seed:    seed,
		}
	}
	expect := func(sc scenario, substr string) scenario {
		sc.expectError = substr
		return sc
	}
	then := func(sc scenario, check Check) scenario {
		sc.after = check
		return sc
	}
	form := func(email, code, password string) Payload {
		return Payload{"email": email, "code": code, "new_password": password}
	}

	return []scenario{
		request("request a code", "recover@example.com", plain),
		expect(request("request for unknown email", "missing@example.com", plain), "user not found"),
		expect(request("request with invalid email", "badmail"), "invalid email"),
		then(reset("password updated", form("recover@example.com", "abcd12", "NewPass22"), pending),
			passwordIs("recover@example.com", "NewPass22")),
		expect(reset("wrong code", form("recover@example.com", "zzzzzz", "NewPass22"), pending), "does not match"),
		expect(reset("code never requested", form("noreset@example.com", "aaaaaa", "NewPass22"),
			seedUser("noreset@example.com", "norequest", "Recover99")), "not requested"),
		expect(reset("new password without digit", form("recover@example.com", "abcd12", "NoDigits!"), pending), "a digit"),
		expect(reset("new password without uppercase", form("recover@example.com", "abcd12", "loweronly2"), pending), "uppercase"),
		expect(reset("new password without lowercase", form("recover@example.com", "abcd12", "UPPERONLY2"), pending), "lowercase"),
		expect(reset("short new password", form("recover@example.com", "abcd12", "Aa1"), pending), "at least 8"),
		expect(reset("empty code", form("recover@example.com", "", "NewPass22"), pending), "code is required"),
		expect(reset("email with a space", form(" recover@example.com", "abcd12", "NewPass22"), pending), "invalid email"),
		request("request for another user", "another@example.com", seedUser("another@example.com", "another", "PassWord1")),
		then(request("repeated request replaces the code", "repeat@example.com",
			withCode(seedUser("repeat@example.com", "repeatuser", "Repeat99"), "old111")),
			recoveryCodeIsIssued("repeat@example.com")),
		then(reset("password updated for uppercase email", form("UPCASE@EXAMPLE.COM", "ff11aa", "UpperNew1"),
			withCode(seedUser("UPCASE@EXAMPLE.COM", "upcaseuser", "SomePass1"), "ff11aa")),
			passwordIs("UPCASE@EXAMPLE.COM", "UpperNew1")),
	}
}
