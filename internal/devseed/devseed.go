// Package devseed loads a YAML fixture of users and jobs into a running
// board. Users are registered through the identity provider and jobs are
// posted as their managers, so seeded data follows the same rules as data
// entered through the UI.
package devseed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	domainauth "github.com/target/jobboard/internal/domain/auth"
	"github.com/target/jobboard/internal/domain/model"
	"github.com/target/jobboard/internal/ports"
	"github.com/target/jobboard/internal/service"
)

// User is a fixture account.
type User struct {
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

// Job is a fixture job posted by the manager with the given email.
type Job struct {
	Manager     string `yaml:"manager"`
	Title       string `yaml:"title"`
	Location    string `yaml:"location"`
	Description string `yaml:"description"`
	Salary      string `yaml:"salary"`
	Status      string `yaml:"status"`
}

// Fixture is the root of a seed file.
type Fixture struct {
	Managers []User `yaml:"managers"`
	Workers  []User `yaml:"workers"`
	Jobs     []Job  `yaml:"jobs"`
}

// LoadFile reads and validates a fixture. Unknown keys are rejected.
func LoadFile(path string) (*Fixture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)

	var fx Fixture
	if err := dec.Decode(&fx); err != nil {
		return nil, fmt.Errorf("decode seed file %s: %w", path, err)
	}
	if err := fx.Validate(); err != nil {
		return nil, fmt.Errorf("seed file %s: %w", path, err)
	}
	return &fx, nil
}

// Validate checks that every job names a fixture manager and every status is known.
func (fx *Fixture) Validate() error {
	managers := make(map[string]bool, len(fx.Managers))
	for _, m := range fx.Managers {
		managers[strings.ToLower(strings.TrimSpace(m.Email))] = true
	}
	var errs []error
	for i, j := range fx.Jobs {
		if !managers[strings.ToLower(strings.TrimSpace(j.Manager))] {
			errs = append(errs, fmt.Errorf("jobs[%d] %q: manager %q is not listed under managers", i, j.Title, j.Manager))
		}
		if j.Status != "" {
			if _, ok := model.ParseJobStatus(j.Status); !ok {
				errs = append(errs, fmt.Errorf("jobs[%d] %q: unknown status %q", i, j.Title, j.Status))
			}
		}
	}
	return errors.Join(errs...)
}

// Registrar registers accounts with a role.
type Registrar interface {
	Register(ctx context.Context, role domainauth.Role, in service.RegisterInput) (string, error)
}

// JobPoster lists and posts a manager's jobs.
type JobPoster interface {
	ListForManager(ctx context.Context, managerID string) ([]model.JobWithCount, error)
	Create(ctx context.Context, managerID string, in service.JobInput) (*model.Job, error)
	Update(ctx context.Context, managerID, jobID string, in service.JobInput) (*model.Job, error)
}

// Seeder applies fixtures.
type Seeder struct {
	Auth     Registrar
	Identity ports.IdentityProvider
	Jobs     JobPoster
	Logger   *slog.Logger
}

// Result counts what a run created.
type Result struct {
	Users   int
	Jobs    int
	Skipped int
}

// Run registers the fixture users and posts their jobs. Accounts that already
// exist are resolved by signing in with the fixture password, and jobs whose
// title the manager already posted are skipped, so Run can be repeated.
func (s *Seeder) Run(ctx context.Context, fx *Fixture) (Result, error) {
	var res Result
	managerIDs := make(map[string]string, len(fx.Managers))

	for _, m := range fx.Managers {
		uid, created, err := s.ensureUser(ctx, domainauth.RoleManager, m)
		if err != nil {
			return res, err
		}
		managerIDs[strings.ToLower(strings.TrimSpace(m.Email))] = uid
		if created {
			res.Users++
		}
	}
	for _, w := range fx.Workers {
		_, created, err := s.ensureUser(ctx, domainauth.RoleWorker, w)
		if err != nil {
			return res, err
		}
		if created {
			res.Users++
		}
	}

	posted := make(map[string]map[string]bool)
	for _, j := range fx.Jobs {
		uid := managerIDs[strings.ToLower(strings.TrimSpace(j.Manager))]
		if uid == "" {
			return res, fmt.Errorf("seed job %q: unknown manager %q", j.Title, j.Manager)
		}
		titles, err := s.postedTitles(ctx, posted, uid)
		if err != nil {
			return res, err
		}
		if titles[strings.TrimSpace(j.Title)] {
			res.Skipped++
			continue
		}

		in := service.JobInput{Title: j.Title, Location: j.Location, Description: j.Description, Salary: j.Salary}
		job, err := s.Jobs.Create(ctx, uid, in)
		if err != nil {
			return res, fmt.Errorf("seed job %q: %w", j.Title, err)
		}
		// New jobs always start Active.
		if status, ok := model.ParseJobStatus(j.Status); ok && status != job.Status {
			in.Status = &status
			if _, err := s.Jobs.Update(ctx, uid, job.ID, in); err != nil {
				return res, fmt.Errorf("seed job %q status: %w", j.Title, err)
			}
		}
		titles[job.Title] = true
		res.Jobs++
	}

	s.logger().InfoContext(ctx, "dev seed applied", "users", res.Users, "jobs", res.Jobs, "skipped", res.Skipped)
	return res, nil
}

func (s *Seeder) ensureUser(ctx context.Context, role domainauth.Role, u User) (string, bool, error) {
	uid, err := s.Auth.Register(ctx, role, service.RegisterInput{Username: u.Name, Email: u.Email, Password: u.Password})
	if err == nil {
		return uid, true, nil
	}

	uid, signInErr := s.existingUID(ctx, u)
	if signInErr != nil {
		return "", false, fmt.Errorf("seed %s %s: %w", role, u.Email, errors.Join(err, signInErr))
	}
	s.logger().DebugContext(ctx, "seed user already registered", "email", u.Email, "role", role)
	return uid, false, nil
}

func (s *Seeder) existingUID(ctx context.Context, u User) (string, error) {
	token, err := s.Identity.SignInWithPassword(ctx, u.Email, u.Password)
	if err != nil {
		return "", err
	}
	claims, err := s.Identity.VerifyIDToken(ctx, token)
	if err != nil {
		return "", err
	}
	return claims.UID, nil
}

func (s *Seeder) postedTitles(ctx context.Context, cache map[string]map[string]bool, uid string) (map[string]bool, error) {
	if titles, ok := cache[uid]; ok {
		return titles, nil
	}
	jobs, err := s.Jobs.ListForManager(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("list seeded jobs: %w", err)
	}
	titles := make(map[string]bool, len(jobs))
	for _, j := range jobs {
		titles[j.Title] = true
	}
	cache[uid] = titles
	return titles, nil
}

func (s *Seeder) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}
