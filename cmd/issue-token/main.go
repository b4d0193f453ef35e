package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"payledger.backend/internal/config"
	"payledger.backend/internal/domain/entities"
	"payledger.backend/pkg/jwt"
)

type issueTokenDeps struct {
	loadEnv func() error
	loadCfg func() *config.Config
	out     io.Writer
}

type issueTokenArgs struct {
	subject   string
	ownerType string
	email     string
	role      string
	caps      string
	expiry    time.Duration
}

func main() {
	var args issueTokenArgs
	flag.StringVar(&args.subject, "subject", "", "owner id (uuid); random when empty")
	flag.StringVar(&args.ownerType, "owner-type", string(entities.OwnerTypeUser), "owner type: user or business")
	flag.StringVar(&args.email, "email", "", "email embedded in the token")
	flag.StringVar(&args.role, "role", "user", "role embedded in the token")
	flag.StringVar(&args.caps, "caps", "", "comma separated capabilities, e.g. payouts:approve,payouts:pay")
	flag.DurationVar(&args.expiry, "expiry", 0, "token lifetime; JWT_EXPIRY when zero")
	flag.Parse()

	deps := issueTokenDeps{
		loadEnv: func() error { return godotenv.Load() },
		loadCfg: config.Load,
		out:     os.Stdout,
	}
	if err := run(args, deps); err != nil {
		log.Fatal(err)
	}
}

func run(args issueTokenArgs, deps issueTokenDeps) error {
	if err := deps.loadEnv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
	cfg := deps.loadCfg()

	identity, err := buildIdentity(args)
	if err != nil {
		return err
	}

	expiry := args.expiry
	if expiry <= 0 {
		expiry = cfg.JWT.Expiry
	}
	token, err := jwt.NewJWTService(cfg.JWT.Secret, expiry).GenerateToken(identity)
	if err != nil {
		return fmt.Errorf("sign token: %w", err)
	}

	fmt.Fprintf(deps.out, "OWNER=%s:%s\n", identity.OwnerType, identity.SubjectID)
	fmt.Fprintf(deps.out, "TOKEN=%s\n", token)
	return nil
}

func buildIdentity(args issueTokenArgs) (jwt.Identity, error) {
	ownerType := entities.OwnerType(args.ownerType)
	if !ownerType.Valid() {
		return jwt.Identity{}, fmt.Errorf("invalid owner type: %s (allowed: user, business)", args.ownerType)
	}

	subject := uuid.New()
	if args.subject != "" {
		parsed, err := uuid.Parse(args.subject)
		if err != nil {
			return jwt.Identity{}, fmt.Errorf("invalid subject: %w", err)
		}
		subject = parsed
	}

	var caps []string
	for _, c := range strings.Split(args.caps, ",") {
		if c = strings.TrimSpace(c); c != "" {
			caps = append(caps, c)
		}
	}

	return jwt.Identity{
		SubjectID:    subject,
		OwnerType:    string(ownerType),
		Email:        args.email,
		Role:         args.role,
		Capabilities: caps,
	}, nil
}
