package notify

import (
	"fmt"
	"html/template"

	"storefront_back_end/internal/models"
)

var funcs = template.FuncMap{
	"money": func(v float64) string { return fmt.Sprintf("$%.2f", v) },
	"lineTotal": func(it models.OrderItem) float64 {
		return models.RoundCents(it.Price * float64(it.Quantity))
	},
}

const layoutStart = `<!DOCTYPE html>
<html lang="en">
<head><meta charset="UTF-8"><title>{{.Title}}</title></head>
<body style="font-family: Arial, sans-serif; background-color: #f9f9f9; padding: 20px;">
<div style="max-width: 600px; margin: auto; background-color: white; padding: 20px; border-radius: 10px;">
`

const layoutEnd = `</div>
</body>
</html>`

var contactTpl = template.Must(template.New("contact").Funcs(funcs).Parse(layoutStart + `
<h2 style="color: #333;">New contact message</h2>
<p><strong>From:</strong> {{.Contact.Name}} &lt;{{.Contact.Email}}&gt;</p>
<p><strong>Subject:</strong> {{.Contact.Subject}}</p>
<p style="white-space: pre-wrap;">{{.Contact.Message}}</p>
` + layoutEnd))

var orderTpl = template.Must(template.New("order").Funcs(funcs).Parse(layoutStart + `
<h2 style="color: #333;">{{.Title}}</h2>
<p>Hello {{.Order.UserName}},</p>
<p>{{.Intro}}</p>
<p><strong>Order:</strong> {{.Order.OrderID}} &middot; <strong>Status:</strong> {{.Order.Status}}</p>
<table style="width: 100%; border-collapse: collapse; margin: 20px 0;">
	<thead>
		<tr style="background-color: #f0f0f0;">
			<th style="padding: 10px; text-align: left;">Product</th>
			<th style="padding: 10px; text-align: left;">Qty</th>
			<th style="padding: 10px; text-align: left;">Price</th>
			<th style="padding: 10px; text-align: left;">Total</th>
		</tr>
	</thead>
	<tbody>
	{{range .Order.Items}}
		<tr>
			<td style="padding: 10px;">{{.ProductName}}</td>
			<td style="padding: 10px;">{{.Quantity}}</td>
			<td style="padding: 10px;">{{money .Price}}</td>
			<td style="padding: 10px;">{{money (lineTotal .)}}</td>
		</tr>
	{{end}}
	</tbody>
	<tfoot>
		<tr>
			<td colspan="3" style="padding: 10px; text-align: right; font-weight: bold;">Total:</td>
			<td style="padding: 10px; font-weight: bold;">{{money .Order.TotalAmount}}</td>
		</tr>
	</tfoot>
</table>
<p>Shipping to {{.Order.ShippingAddress.Street}}, {{.Order.ShippingAddress.City}}, {{.Order.ShippingAddress.State}} {{.Order.ShippingAddress.ZipCode}}, {{.Order.ShippingAddress.Country}}</p>
` + layoutEnd))

type orderView struct {
	Title string
	Intro string
	Order models.Order
}

func statusSubject(s models.OrderStatus) string {
	switch s {
	case models.OrderProcessing:
		return "Your order is being processed"
	case models.OrderShipped:
		return "📦 Your order has shipped"
	case models.OrderDelivered:
		return "🎉 Your order has been delivered"
	case models.OrderCancelled:
		return "Your order has been cancelled"
	default:
		return "Your order has been updated"
	}
}
