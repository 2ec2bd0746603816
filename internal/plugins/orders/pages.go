package orders

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// ConfirmationPage renders the order confirmation.
func ConfirmationPage(order *Order) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, "<h1>Order Placed</h1>\n<p>Thank you for placing an order for %s.</p>\n",
			templ.EscapeString(order.ProductName))
		return err
	})
}
