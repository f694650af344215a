package domain

// User представляет автора или ревьювера на хостинге кода.
type User struct {
	Login string
}

// Logins возвращает логины пользователей в исходном порядке.
func Logins(users []User) []string {
	out := make([]string, 0, len(users))
	for _, u := range users {
		out = append(out, u.Login)
	}
	return out
}
