// Command gsauth-login signs an account in against the identity provider and
// prints the assembled account record.
//
// When the provider demands a second factor, the command lists the trusted
// phones, requests an SMS code, and reads the code from stdin.
//
// Run:
//
//	go run ./cmd/gsauth-login -email user@example.com -password 'hunter2'
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	gsauth "github.com/hexfold/gsauth"
	"github.com/rs/zerolog"
)

func main() {
	var (
		email    = flag.String("email", "", "account email")
		password = flag.String("password", "", "account password")
		timeout  = flag.Duration("timeout", 60*time.Second, "overall deadline for the flow")
		verbose  = flag.Bool("verbose", false, "emit audit events to stderr")
	)
	flag.Parse()

	if *email == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "email and password are required")
		os.Exit(2)
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg := gsauth.DefaultConfig()
	cfg.Audit.Enabled = *verbose

	builder := gsauth.New().WithConfig(cfg)
	if *verbose {
		builder = builder.WithAuditSink(gsauth.NewZerologSink(logger))
	}

	engine, err := builder.Build()
	if err != nil {
		logger.Fatal().Err(err).Msg("engine build failed")
	}
	defer engine.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()
	ctx = gsauth.WithAccountID(ctx, *email)

	session, err := engine.StartSession(ctx, *email, *password)
	if err != nil {
		logger.Fatal().Err(err).Msg("session handshake failed")
	}

	request := gsauth.SignInRequest{
		Email:    *email,
		Password: *password,
	}
	if request.DeviceID, err = engine.GenerateDeviceID(); err != nil {
		logger.Fatal().Err(err).Msg("device id generation failed")
	}

	if session.SecondFactorRequired {
		code, trustToken, err := runSecondFactor(ctx, engine, session, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("second factor failed")
		}
		request.Code = code
		request.SecondFactorSatisfied = trustToken != ""
	}

	account, err := engine.SignIn(ctx, request)
	if err != nil {
		logger.Fatal().Err(err).Msg("sign in failed")
	}

	out := map[string]string{
		"email":                 account.Email,
		"provider_account_id":   account.ProviderAccountID,
		"directory_services_id": account.DirectoryServicesID,
		"store_region":          account.StoreRegion,
		"first_name":            account.FirstName,
		"last_name":             account.LastName,
		"device_id":             account.DeviceID,
	}
	encoded, _ := json.MarshalIndent(out, "", "  ")
	fmt.Println(string(encoded))
}

func runSecondFactor(ctx context.Context, engine *gsauth.Engine, session *gsauth.Session, logger zerolog.Logger) (code, trustToken string, err error) {
	phones, err := engine.ListTrustedPhones(ctx, session)
	if err != nil {
		return "", "", err
	}
	if len(phones.Phones) == 0 {
		return "", "", gsauth.ErrPhoneNotFound
	}
	if phones.CooldownActive {
		logger.Warn().Msg("provider reports a code-delivery cooldown; a new SMS may not arrive")
	}

	phone := phones.Phones[0]
	logger.Info().Str("number", phone.DialedNumber).Msg("requesting SMS code")
	if err := engine.SendSMS(ctx, session, phone.ID); err != nil {
		return "", "", err
	}

	fmt.Fprint(os.Stderr, "security code: ")
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", "", err
	}
	code = strings.TrimSpace(line)

	trustToken, err = engine.CompleteSMSVerification(ctx, session, phone.ID, code)
	if err != nil {
		return "", "", err
	}
	if trustToken == "" {
		logger.Warn().Msg("no trust token issued; the code will be appended to the password instead")
	}
	return code, trustToken, nil
}
