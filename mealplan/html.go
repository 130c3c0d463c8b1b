package mealplan

import (
	"bytes"
	"html/template"
)

// planDocument is the inline-styled plan document embedded in the email body
// and served by the plan endpoint. Inline styles only, for email client
// compatibility.
var planDocument = template.Must(template.New("plan").Parse(`
<div style="font-family: 'Poppins', Arial, sans-serif; color: #334155; background-color: #f8fafc; padding: 20px; line-height: 1.6;">
  <div style="max-width: 600px; margin: auto; background-color: #ffffff; border-radius: 12px; border: 1px solid #e2e8f0; overflow: hidden;">
    <div style="padding: 24px; text-align: center; background-color: #f0fdfa; border-bottom: 1px solid #e2e8f0;">
      <h1 style="margin: 0; font-size: 28px; font-weight: 800; color: #1e293b;">{{if .Name}}{{.Name}}, seu Plano!{{else}}Seu Plano Personalizado{{end}}</h1>
      <p style="margin: 8px 0 0 0; font-size: 16px; color: #475569;">
        Este é um plano <strong>exemplo</strong> para sua meta de <strong style="color: #0d9488;">{{.Calories}} kcal</strong>.
      </p>
      <p style="margin: 4px 0 0 0; font-size: 14px; color: #475569; background-color: #ccfbf1; border: 1px solid #99f6e4; border-radius: 9999px; display: inline-block; padding: 4px 12px;">
        Plano {{if eq .DietaryPreference "vegetarian"}}Vegetariano{{else}}Onívoro{{end}} / Orçamento: <strong>{{.EconomicLabel}}</strong>
      </p>
    </div>

    <div style="padding: 24px;">
      <h2 style="font-size: 22px; font-weight: bold; color: #1e293b; text-align: center; margin-top: 0; margin-bottom: 20px;">Cardápio Sugerido de 7 Dias</h2>
      {{range .Days}}
      <div style="margin-bottom: 16px; padding: 16px; border: 1px solid #e2e8f0; border-radius: 8px; background-color: #ffffff;">
        <h3 style="margin: 0 0 12px 0; color: #0d9488; font-size: 20px; font-weight: bold;">{{.Day}}</h3>
        <p style="margin: 8px 0; font-size: 15px; color: #334155;"><strong>☕ Café da Manhã:</strong> {{.Breakfast}}</p>
        <p style="margin: 8px 0; font-size: 15px; color: #334155;"><strong>☀️ Almoço:</strong> {{.Lunch}}</p>
        <p style="margin: 8px 0; font-size: 15px; color: #334155;"><strong>🌙 Jantar:</strong> {{.Dinner}}</p>
        <p style="margin: 8px 0; font-size: 15px; color: #334155;"><strong>🍎 Lanche:</strong> {{.Snack}}</p>
      </div>
      {{end}}
    </div>

    <div style="padding: 24px; background-color: #f0fdfa;">
      <h2 style="font-size: 22px; font-weight: bold; color: #1e293b; text-align: center; margin-top: 0; margin-bottom: 20px;">Dicas de Ouro para sua Jornada</h2>
      {{range .Tips}}
      <div style="margin-bottom: 12px; padding: 12px; border: 1px solid #e2e8f0; border-radius: 8px; background-color: #ffffff;">
        <h4 style="margin: 0 0 4px 0; font-size: 16px; font-weight: bold; color: #1e293b;">{{.Icon}} {{.Title}}</h4>
        <p style="margin: 0; font-size: 14px; color: #475569;">{{.Text}}</p>
      </div>
      {{end}}
    </div>

    <div style="padding: 24px; text-align: center; border-top: 1px solid #e2e8f0;">
      <p style="margin: 0; font-size: 12px; color: #64748b;">Este plano é uma sugestão. Para um acompanhamento detalhado, consulte um nutricionista. &copy; FitCalc Premium</p>
    </div>
  </div>
</div>
`))

// HTML renders the plan document for the email body and the plan endpoint.
func HTML(p PlanData) (string, error) {
	var buf bytes.Buffer
	if err := planDocument.Execute(&buf, p); err != nil {
		return "", err
	}
	return buf.String(), nil
}
