package auth

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

const loginPageHTML = `
<h1>Welcome to the Store</h1>
<form action="/login" method="post">
    <label for="email">Email:</label>
    <input type="email" name="email" id="email" required>
    <label for="password">Password:</label>
    <input type="password" name="password" id="password" required>
    <button type="submit">Login</button>
</form>
`

// LoginPage renders the login form.
func LoginPage() templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, loginPageHTML)
		return err
	})
}
