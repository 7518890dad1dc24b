package scenarios

import "strings"

func registrationScenarios() []scenario {
	reg := func(name string, payload Payload) scenario {
		return scenario{name: "Registration: " + name, group: GroupRegistration, action: ActionRegister, payload: payload}
	}
	regErr := func(name string, payload Payload, expect string) scenario {
		sc := reg(name, payload)
		sc.expectError = expect
		return sc
	}

	duplicateEmail := regErr("duplicate email",
		Payload{"email": "dup@example.com", "username": "dupuser", "password": "DupPass1"}, "already registered")
	duplicateEmail.seed = []Seed{seedUser("dup@example.com", "original", "Secret11")}

	takenUsername := regErr("username already taken",
		Payload{"email": "unique@example.com", "username": "original", "password": "DupPass2"}, "already taken")
	takenUsername.seed = []Seed{seedUser("first@example.com", "original", "Secret11")}

	return []scenario{
		reg("basic success", Payload{"email": "user1@example.com", "username": "user_one", "password": "Secure123"}),
		reg("username with underscore", Payload{"email": "user2@example.com", "username": "nick_name", "password": "StrongPass9"}),
		reg("minimum length username", Payload{"email": "user3@example.com", "username": "abc", "password": "ValidPass1"}),
		reg("maximum length username", Payload{"email": "user4@example.com", "username": strings.Repeat("a", 30), "password": "ValidPass2"}),
		reg("email with subdomain", Payload{"email": "user@sub.example.com", "username": "submail", "password": "MailPass3"}),
		reg("digits only username", Payload{"email": "digits@example.com", "username": "123456", "password": "Digits555"}),
		reg("complex password with symbol", Payload{"email": "complex@example.com", "username": "complexuser", "password": "Aa1!aaqq"}),
		regErr("email without @", Payload{"email": "invalidmail.com", "username": "badmail", "password": "MailFail1"}, "invalid email"),
		regErr("email with a space", Payload{"email": "user @example.com", "username": "badspace", "password": "MailFail2"}, "invalid email"),
		regErr("short username", Payload{"email": "shortnick@example.com", "username": "yo", "password": "NickFail1"}, "username must be"),
		regErr("username with forbidden character", Payload{"email": "badchar@example.com", "username": "bad-name", "password": "NickFail2"}, "username must be"),
		regErr("password too short", Payload{"email": "shortpass@example.com", "username": "shortpass", "password": "Ab1"}, "at least 8"),
		regErr("password without uppercase", Payload{"email": "nopcap@example.com", "username": "nopcaps", "password": "loweronly1"}, "uppercase letter"),
		regErr("password without lowercase", Payload{"email": "nolower@example.com", "username": "nolo", "password": "UPPERCASE8"}, "lowercase letter"),
		regErr("password without digit", Payload{"email": "nodigit@example.com", "username": "nodigit", "password": "NoDigits!"}, "a digit"),
		duplicateEmail,
		takenUsername,
		reg("uppercase email", Payload{"email": "UPPER@EXAMPLE.COM", "username": "uppermail", "password": "Upper123"}),
		reg("username with letters and digits", Payload{"email": "mix@example.com", "username": "mixed123", "password": "Mixed123"}),
		reg("password at the requirement boundary", Payload{"email": "edgepass@example.com", "username": "edgeuser", "password": "Aa1aaaaa"}),
	}
}
