package services

import (
	"context"
	"errors"
	"time"

	"userhub/internal/database"
	"userhub/internal/models"
	"userhub/internal/repositories"
	"userhub/internal/response"
	"userhub/pkg/rabbitmq"

	"github.com/rs/zerolog"
)

// DefaultDBTimeout bounds the database work of a single write operation.
const DefaultDBTimeout = 5 * time.Second

var errAccountRowMissing = errors.New("account row missing for existing email")

// TokenIssuer signs session tokens.
type TokenIssuer interface {
	Issue(userIdx int64) (string, error)
}

// EventPublisher publishes user lifecycle events.
type EventPublisher interface {
	PublishUserEvent(event rabbitmq.UserEvent) error
}

// SignUpResult is the body of a successful CreateUser.
type SignUpResult struct {
	UserIdx int64 `json:"userIdx"`
}

// SignInResult is the body of a successful SignIn.
type SignInResult struct {
	UserID int64  `json:"userId"`
	JWT    string `json:"jwt"`
}

// UserService handles sign-up, sign-in and profile edits.
type UserService struct {
	pool      database.Pool
	provider  repositories.UserProvider
	dao       repositories.UserDao
	tokens    TokenIssuer
	publisher EventPublisher // optional
	logger    zerolog.Logger
	dbTimeout time.Duration
}

// NewUserService creates a new UserService. publisher may be nil.
func NewUserService(
	pool database.Pool,
	provider repositories.UserProvider,
	dao repositories.UserDao,
	tokens TokenIssuer,
	publisher EventPublisher,
	logger zerolog.Logger,
) *UserService {
	return &UserService{
		pool:      pool,
		provider:  provider,
		dao:       dao,
		tokens:    tokens,
		publisher: publisher,
		logger:    logger,
		dbTimeout: DefaultDBTimeout,
	}
}

// WithDBTimeout sets the deadline for the database work of CreateUser and
// EditUser. CreateUser holds a pooled connection while its email lookup waits
// for another one. A non-positive d keeps the current value.
func (s *UserService) WithDBTimeout(d time.Duration) *UserService {
	if d > 0 {
		s.dbTimeout = d
	}
	return s
}

// CreateUser registers a new account inside a transaction.
func (s *UserService) CreateUser(ctx context.Context, email, password, nickname string) response.Response {
	ctx, cancel := context.WithTimeout(ctx, s.dbTimeout)
	defer cancel()

	conn, err := s.pool.GetConnection(ctx)
	if err != nil {
		s.logger.Error().Err(err).Str("op", "createUser").Msg("DB error")
		return response.New(response.DBError)
	}
	defer s.release(conn, "createUser")

	if err := conn.BeginTransaction(); err != nil {
		s.logger.Error().Err(err).Str("op", "createUser").Msg("DB error")
		return response.New(response.DBError)
	}

	emailRows, err := s.provider.EmailCheck(ctx, email)
	if err != nil {
		return s.queryError(conn, "createUser", err)
	}
	if len(emailRows) > 0 {
		// the deferred release rolls the open transaction back
		return response.New(response.SignupRedundantEmail)
	}

	idx, err := s.dao.InsertUserInfo(ctx, conn, repositories.InsertUserInfoParams{
		Email:    email,
		Password: HashPassword(password),
		Nickname: nickname,
	})
	if err != nil {
		return s.queryError(conn, "createUser", err)
	}

	if err := conn.Commit(); err != nil {
		s.logger.Error().Err(err).Str("op", "createUser").Msg("query error")
		return response.New(response.QueryError)
	}

	s.logger.Info().Str("email", email).Int64("userIdx", idx).Msg("posted user")
	s.publishUserCreated(idx, email, nickname)

	return response.New(response.Success, SignUpResult{UserIdx: idx})
}

// SignIn checks the credentials and account status, then issues a session token.
// Each step waits for the previous one and the first mismatch wins.
func (s *UserService) SignIn(ctx context.Context, email, password string) response.Response {
	emailRows, err := s.provider.EmailCheck(ctx, email)
	if err != nil {
		return s.signInError(err)
	}
	if len(emailRows) < 1 {
		return response.New(response.SigninEmailWrong)
	}
	selectEmail := emailRows[0].Email

	hashedPassword := HashPassword(password)
	passwordRows, err := s.provider.PasswordCheck(ctx, selectEmail, hashedPassword)
	if err != nil {
		return s.signInError(err)
	}
	if len(passwordRows) < 1 {
		return response.New(response.SigninPasswordWrong)
	}
	if passwordRows[0].Password != hashedPassword {
		return response.New(response.SigninPasswordWrong)
	}

	accountRows, err := s.provider.AccountCheck(ctx, email)
	if err != nil {
		return s.signInError(err)
	}
	if len(accountRows) < 1 {
		return s.signInError(errAccountRowMissing)
	}
	account := accountRows[0]

	switch account.Status {
	case models.UserStatusInactive:
		return response.New(response.SigninInactiveAccount)
	case models.UserStatusDeleted:
		return response.New(response.SigninWithdrawalAccount)
	}

	token, err := s.tokens.Issue(account.Idx)
	if err != nil {
		return s.signInError(err)
	}

	return response.New(response.Success, SignInResult{UserID: account.Idx, JWT: token})
}

// EditUser sets the nickname of user id.
func (s *UserService) EditUser(ctx context.Context, id int64, nickname string) response.Response {
	ctx, cancel := context.WithTimeout(ctx, s.dbTimeout)
	defer cancel()

	conn, err := s.pool.GetConnection(ctx)
	if err != nil {
		s.logger.Error().Err(err).Str("op", "editUser").Msg("DB error")
		return response.New(response.DBError)
	}
	defer s.release(conn, "editUser")

	if err := s.dao.UpdateUserInfo(ctx, conn, id, nickname); err != nil {
		s.logger.Error().Err(err).Str("op", "editUser").Int64("userIdx", id).Msg("query error")
		return response.New(response.QueryError)
	}

	return response.New(response.Success)
}

// RetrieveUser returns the public profile of user id.
func (s *UserService) RetrieveUser(ctx context.Context, id int64) response.Response {
	profile, err := s.provider.RetrieveUser(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("op", "retrieveUser").Int64("userIdx", id).Msg("DB error")
		return response.New(response.DBError)
	}
	if profile == nil {
		return response.New(response.UserUserIDNotExist)
	}
	return response.New(response.Success, profile)
}

func (s *UserService) queryError(conn database.Conn, op string, err error) response.Response {
	if rbErr := conn.Rollback(); rbErr != nil {
		s.logger.Error().Err(rbErr).Str("op", op).Msg("rollback failed")
	}
	s.logger.Error().Err(err).Str("op", op).Msg("query error")
	return response.New(response.QueryError)
}

func (s *UserService) signInError(err error) response.Response {
	s.logger.Error().Err(err).Str("op", "signIn").Msg("DB error")
	return response.New(response.DBError)
}

func (s *UserService) release(conn database.Conn, op string) {
	if err := conn.Release(); err != nil {
		s.logger.Error().Err(err).Str("op", op).Msg("failed to release connection")
	}
}

func (s *UserService) publishUserCreated(idx int64, email, nickname string) {
	if s.publisher == nil {
		return
	}
	event := rabbitmq.UserEvent{
		Type:       rabbitmq.UserCreated,
		UserIdx:    idx,
		Email:      email,
		Nickname:   nickname,
		OccurredAt: time.Now().UTC(),
	}
	if err := s.publisher.PublishUserEvent(event); err != nil {
		s.logger.Warn().Err(err).Int64("userIdx", idx).Msg("failed to publish user created event")
	}
}
