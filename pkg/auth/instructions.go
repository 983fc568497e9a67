package auth

import (
	"fmt"
	"io"
	"strings"
)

// WriteCardGuide explains where to find the login details the catalog
// expects and how the CLI keeps them
func WriteCardGuide(w io.Writer) {
	rule := strings.Repeat("=", 60)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "SFPL LIBRARY CARD LOGIN")
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "You need the barcode printed on the back of your library card")
	fmt.Fprintln(w, "and the PIN you chose when the card was issued.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Barcode: the 14 digit number under the bar code")
	fmt.Fprintln(w, "  PIN:     4 to 6 digits; reset it at any branch desk")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Saved cards go to the system keychain when one is available,")
	fmt.Fprintln(w, "otherwise to an encrypted file in the sfpl config directory.")
	fmt.Fprintf(w, "For scripts, set %s and %s instead of saving a card.\n", BarcodeEnv, PINEnv)
	fmt.Fprintln(w, rule)
}
