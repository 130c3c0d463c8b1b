package email

import (
	"fmt"
	"log"
	"net/smtp"
	"os"
)

// Result mirrors the provider contract: failures are reported, never raised
// as fatal to the purchase funnel.
type Result struct {
	Success   bool   `json:"success"`
	MessageID string `json:"providerMessageId,omitempty"`
}

func send(to, subject, htmlBody string) error {
	host := os.Getenv("SMTP_HOST")
	port := os.Getenv("SMTP_PORT")
	user := os.Getenv("SMTP_USER")
	pass := os.Getenv("SMTP_PASS")
	from := os.Getenv("SMTP_FROM")
	if from == "" {
		from = user
	}
	if host == "" || port == "" || user == "" || pass == "" || from == "" {
		return fmt.Errorf("SMTP environment variables missing")
	}
	addr := fmt.Sprintf("%s:%s", host, port)
	auth := smtp.PlainAuth("", user, pass, host)
	msg := []byte(fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s", from, to, subject, htmlBody))
	return smtp.SendMail(addr, auth, from, []string{to}, msg)
}

// SendPlan emails the generated plan document. planURL points back at the
// plan page so the user can download the PDF version from there.
func SendPlan(to, name, htmlPlan, planURL string) Result {
	subject := "Seu Plano Personalizado • FitCalc"
	body := fmt.Sprintf(`<div style="font-family: 'Poppins', Arial, sans-serif; color: #334155; line-height: 1.6;">
<p>Olá, %s! 👋</p>
<p>Seu pagamento foi aprovado com sucesso! 🎉</p>
<p>Conforme prometido, aqui está o seu <strong>Plano Personalizado de Emagrecimento de 7 Dias</strong>. Ele foi gerado com base nas informações que você forneceu.</p>
<p>Você pode consultá-lo sempre que quiser aqui neste e-mail. Também recomendamos que visite a página do plano em nosso site para <strong>baixar a versão em PDF</strong>.</p>
<hr style="border: none; border-top: 1px solid #e2e8f0; margin: 20px 0;">
%s
<hr style="border: none; border-top: 1px solid #e2e8f0; margin: 20px 0;">
<p style="text-align: center; font-size: 14px;">
<strong>Deseja fazer o download do PDF?</strong><br>
Acesse a <a href="%s" target="_blank" style="color: #0d9488; text-decoration: none; font-weight: bold;">sua página do plano</a> para baixar o arquivo.
</p>
<p style="margin-top: 20px;">Estamos com você na sua jornada!</p>
<p><strong>Equipe FitCalc 💛</strong></p>
</div>`, name, htmlPlan, planURL)

	if err := send(to, subject, body); err != nil {
		log.Printf("[email] plan email to %s failed: %v", to, err)
		return Result{Success: false}
	}
	log.Printf("[email] plan sent to %s", to)
	return Result{Success: true, MessageID: fmt.Sprintf("smtp-%s", to)}
}
