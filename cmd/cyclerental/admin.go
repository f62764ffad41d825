package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/httpapi"
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/identity"
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/shared/core"
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/shared/shell/config"
)

var ErrMissingActorID = errors.New("-id is required")

// runPutActor stores or replaces an actor in the bolt identity database.
func runPutActor(cfg config.Config, args []string) error {
	flags := flag.NewFlagSet("actor", flag.ContinueOnError)
	id := flags.String("id", "", "actor id")
	role := flags.String("role", string(core.RoleStudent), "student, guard, or admin")
	status := flags.String("status", string(core.ActorActive), "active or disabled")

	if err := flags.Parse(args); err != nil {
		return err
	}

	if *id == "" {
		return ErrMissingActorID
	}

	directory, err := identity.OpenBoltDirectory(cfg.IdentityDBPath)
	if err != nil {
		return err
	}
	defer func() { _ = directory.Close() }()

	return directory.Put(context.Background(), core.BuildActor(*id, core.Role(*role), core.ActorStatus(*status)))
}

// runIssueToken prints a bearer token for the actor, signed with the configured secret.
func runIssueToken(cfg config.Config, args []string) error {
	flags := flag.NewFlagSet("token", flag.ContinueOnError)
	id := flags.String("id", "", "actor id, the token subject")
	role := flags.String("role", string(core.RoleStudent), "role claim")
	ttl := flags.Duration("ttl", 12*time.Hour, "token lifetime")

	if err := flags.Parse(args); err != nil {
		return err
	}

	if *id == "" {
		return ErrMissingActorID
	}

	token, err := httpapi.IssueToken([]byte(cfg.JWTSecret), *id, core.Role(*role), *ttl, time.Now())
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(os.Stdout, token)

	return err
}
