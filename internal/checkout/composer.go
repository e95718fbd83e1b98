// Package checkout compose le message de commande envoyé par WhatsApp et
// suit l'étape de checkout de chaque visiteur.
package checkout

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/Ismailjr10/Lera-fashion-ecommerce/internal/models"
	qrcode "github.com/skip2/go-qrcode"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	DefaultRecipient = "2348012345678"
	notProvided      = "Not provided"
	deepLinkBase     = "https://wa.me/"
)

var ErrMissingContact = errors.New("name, phone and address are required")

var printer = message.NewPrinter(language.English)

// Form regroupe le contact et les mensurations saisis avant la commande.
type Form struct {
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	Bust       string `json:"bust"`
	Waist      string `json:"waist"`
	Hip        string `json:"hip"`
	Height     string `json:"height"`
	PantLength string `json:"pant_length"`
}

func (f Form) Validate() error {
	if strings.TrimSpace(f.Name) == "" || strings.TrimSpace(f.Phone) == "" || strings.TrimSpace(f.Address) == "" {
		return ErrMissingContact
	}
	return nil
}

// Prefill complète les champs vides du formulaire avec le profil enregistré.
func (f Form) Prefill(p models.Profile) Form {
	fill := func(dst *string, src string) {
		if strings.TrimSpace(*dst) == "" {
			*dst = src
		}
	}
	fill(&f.Name, p.FirstName)
	fill(&f.Phone, p.Phone)
	fill(&f.Address, p.Address)
	fill(&f.Bust, p.BustSize)
	fill(&f.Waist, p.WaistSize)
	fill(&f.Hip, p.HipSize)
	fill(&f.Height, p.Height)
	fill(&f.PantLength, p.PantLength)
	return f
}

// FormatNaira formate un montant en nairas avec séparateurs de milliers.
func FormatNaira(amount int64) string {
	return printer.Sprintf("₦%d", amount)
}

// ComposeMessage construit le texte de commande, déjà encodé pour une URL.
func ComposeMessage(items []models.CartItem, total int64, form Form) string {
	var b strings.Builder
	b.WriteString("Hi! I'd like to place an order for the following items:\n\n")
	for _, it := range items {
		b.WriteString("- ")
		b.WriteString(it.Product.Name)
		if it.SelectedColor != "" {
			fmt.Fprintf(&b, " (%s)", it.SelectedColor)
		}
		if it.SelectedSize != "" {
			fmt.Fprintf(&b, " - Size: %s", it.SelectedSize)
		}
		fmt.Fprintf(&b, " x%d = %s\n", it.Quantity, FormatNaira(it.Subtotal()))
	}
	fmt.Fprintf(&b, "\nTotal: %s\n\n", FormatNaira(total))

	b.WriteString("Customer details:\n")
	field(&b, "Name", form.Name)
	field(&b, "Phone", form.Phone)
	field(&b, "Address", form.Address)
	b.WriteString("\nMeasurements:\n")
	field(&b, "Bust", form.Bust)
	field(&b, "Waist", form.Waist)
	field(&b, "Hip", form.Hip)
	field(&b, "Height", form.Height)
	field(&b, "Pant length", form.PantLength)

	b.WriteString("\nPlease confirm availability and arrange delivery. Thank you!")
	return Encode(b.String())
}

func field(b *strings.Builder, label, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		value = notProvided
	}
	fmt.Fprintf(b, "%s: %s\n", label, value)
}

// Encode applique l'encodage pourcent ; les espaces deviennent %20.
func Encode(text string) string {
	return strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
}

// Link assemble le lien WhatsApp pour un message déjà encodé.
func Link(recipient, encodedMessage string) string {
	if recipient == "" {
		recipient = DefaultRecipient
	}
	return deepLinkBase + recipient + "?text=" + encodedMessage
}

// QRCode rend le lien en PNG (data URI) pour un scan depuis un téléphone.
func QRCode(link string, size int) (string, error) {
	png, err := qrcode.Encode(link, qrcode.Medium, size)
	if err != nil {
		return "", fmt.Errorf("qr code: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
