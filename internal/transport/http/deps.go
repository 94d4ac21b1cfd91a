package http

import (
	"github.com/abz-group/portal-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/abz-group/portal-api/internal/infrastructure/jwt"
	s3infra "github.com/abz-group/portal-api/internal/infrastructure/s3"
	"github.com/abz-group/portal-api/internal/infrastructure/smtp"
	"github.com/abz-group/portal-api/internal/infrastructure/sns"
	"github.com/abz-group/portal-api/internal/verification"
)

// Deps holds the infrastructure dependencies the router wires into services.
type Deps struct {
	UserRepo          *dynamo.UserRepo
	SessionRepo       *dynamo.SessionRepo
	ReimbursementRepo *dynamo.ReimbursementRepo
	DocumentRepo      *dynamo.DocumentRepo
	CardRepo          *dynamo.CardRepo
	S3Store           *s3infra.Store
	Mailer            smtp.Mailer
	SMSSender         sns.SMSSender
	JWTProvider       *jwtinfra.Provider
	Codes             *verification.Store
}
