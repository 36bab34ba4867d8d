package email

import "context"

// InviteData is everything the invitation email template needs.
type InviteData struct {
	ProjectName string
	InviterName string
	AcceptURL   string
	ExpiresAt   string
}

type Provider interface {
	Send(ctx context.Context, to []string, subject string, htmlBody string) error
	SendInvite(ctx context.Context, to string, data InviteData) error
}

type NoOpProvider struct{}

func (p *NoOpProvider) Send(ctx context.Context, to []string, subject string, htmlBody string) error {
	return nil
}

func (p *NoOpProvider) SendInvite(ctx context.Context, to string, data InviteData) error {
	return nil
}
