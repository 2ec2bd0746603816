package products

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strconv"

	"github.com/a-h/templ"

	"github.com/keyxmakerx/storefront/internal/csrf"
)

// ListPage renders the product listing. Every item is a self-contained form
// posting product_id and the CSRF token to /place-order.
func ListPage(products []Product, token string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, "<h1>Product Listing</h1>\n<ul>\n"); err != nil {
			return err
		}
		for _, p := range products {
			if err := writeItem(w, p, token); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</ul>\n")
		return err
	})
}

func writeItem(w io.Writer, p Product, token string) error {
	src := "/images?name=" + url.QueryEscape(p.Image)
	name := templ.EscapeString(p.Name)

	_, err := fmt.Fprintf(w, `<li>
    <img src="%s" alt="%s" width="100">
    <h3>%s</h3>
    <p>Price: $%s</p>
    <form action="/place-order" method="post">
        <input type="hidden" name="product_id" value="%s">
        <input type="hidden" name="%s" value="%s">
        <button type="submit">Place Order</button>
    </form>
</li>
`,
		templ.EscapeString(src), name,
		name,
		p.Price(),
		strconv.Itoa(p.ID),
		csrf.FormField, templ.EscapeString(token),
	)
	return err
}
