package orders

import "fmt"

// MessageFor builds the client-facing status update. Templates match
// the messages the shop sends today; anything outside the four main
// stages falls back to a generic text.
func MessageFor(s Status, clientName string, seq int64) string {
	switch s {
	case StatusReceived:
		return fmt.Sprintf("Olá %s! Recebemos o seu pedido #%d e ele já está na nossa fila. 🎽", clientName, seq)
	case StatusFinalization:
		return fmt.Sprintf("Olá %s! O pedido #%d entrou em finalização de arte. Em breve começamos a produção.", clientName, seq)
	case StatusInProduction:
		return fmt.Sprintf("Olá %s! Boas notícias: o pedido #%d está em produção. 🖨️", clientName, seq)
	case StatusFinished:
		return fmt.Sprintf("Olá %s! O pedido #%d está pronto para retirada ou envio. Obrigado pela preferência! ✅", clientName, seq)
	default:
		return fmt.Sprintf("Olá %s! O status do pedido #%d foi atualizado.", clientName, seq)
	}
}
