package response

import (
	"time"

	"cervejaria_storefront/internal/domain/entities"
)

// PixSessionResponse is the render state sent to the storefront UI.
type PixSessionResponse struct {
	Status             string `json:"status"`
	OrderID            string `json:"order_id"`
	Amount             string `json:"amount"`
	PixCode            string `json:"pix_code,omitempty"`
	QRCodeBase64       string `json:"qr_code_base64,omitempty"`
	RemainingSeconds   int    `json:"remaining_seconds"`
	Remaining          string `json:"remaining"`
	ConfirmationPrompt bool   `json:"confirmation_prompt"`
	Notice             string `json:"notice,omitempty"`
	Message            string `json:"message,omitempty"`
	Final              bool   `json:"final"`
}

func FromRenderState(st entities.RenderState) PixSessionResponse {
	return PixSessionResponse{
		Status:             string(st.Kind),
		OrderID:            st.OrderID,
		Amount:             st.Amount.StringFixed(2),
		PixCode:            st.PixCode,
		QRCodeBase64:       st.QRImage,
		RemainingSeconds:   st.RemainingSeconds,
		Remaining:          st.Remaining,
		ConfirmationPrompt: st.ConfirmationPrompt,
		Notice:             st.Notice,
		Message:            st.Message,
		Final:              st.IsFinal(),
	}
}

type PaymentAttemptResponse struct {
	ID         string     `json:"id"`
	OrderID    string     `json:"order_id"`
	Amount     string     `json:"amount"`
	Status     string     `json:"status"`
	Reason     string     `json:"reason,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

func FromPaymentAttempts(list []entities.PaymentAttempt) []PaymentAttemptResponse {
	out := make([]PaymentAttemptResponse, 0, len(list))
	for _, a := range list {
		r := PaymentAttemptResponse{
			ID:        a.ID,
			OrderID:   a.OrderID,
			Amount:    a.Amount.StringFixed(2),
			Status:    string(a.Status),
			Reason:    a.Reason,
			CreatedAt: a.CreatedAt,
		}
		if !a.FinishedAt.IsZero() {
			finished := a.FinishedAt
			r.FinishedAt = &finished
		}
		out = append(out, r)
	}
	return out
}
