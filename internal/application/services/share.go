package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"file-share-api/internal/application/ports"
	"file-share-api/internal/domain/errs"
	domain "file-share-api/internal/domain/file"
	"file-share-api/internal/domain/user"
	"file-share-api/internal/infrastructure/mq"
)

const (
	// shareTokenBytes gives 256 bits of entropy per link.
	shareTokenBytes  = 32
	maxTokenAttempts = 5

	MinLinkHours = 1.0
	MaxLinkHours = 24.0 * 365
)

type ShareService struct {
	logger         *zap.Logger
	fileRepository domain.Repository
	userRepository user.Repository
	storage        ports.ByteStorage
	mq             ports.EventPublisher
	mCounter       *prometheus.CounterVec
	policy         domain.Policy
	now            func() time.Time
	newToken       func() (string, error)
}

func NewShareService(
	logger *zap.Logger,
	fileRepository domain.Repository,
	userRepository user.Repository,
	storage ports.ByteStorage,
	mq ports.EventPublisher,
	mCounter *prometheus.CounterVec,
	policy domain.Policy,
) ports.ShareService {
	return &ShareService{
		logger:         logger,
		fileRepository: fileRepository,
		userRepository: userRepository,
		storage:        storage,
		mq:             mq,
		mCounter:       mCounter,
		policy:         policy,
		now:            time.Now,
		newToken:       newShareToken,
	}
}

// AddSharedUsers grants every listed user standing access. Grants only grow:
// ids already present are kept once and the owner is never added.
func (ss *ShareService) AddSharedUsers(ctx context.Context, id domain.UUID, requester user.UUID, userIDs []user.UUID) error {
	ids := uniqueIDs(userIDs)
	if len(ids) == 0 {
		return errs.New(errs.KindValidation, "userIds must contain at least one user id")
	}

	f, err := ss.ownedFile(ctx, id, requester)
	if err != nil {
		return err
	}

	grantees := make([]user.UUID, 0, len(ids))
	for _, uid := range ids {
		if !f.IsOwner(uid) {
			grantees = append(grantees, uid)
		}
	}
	if len(grantees) == 0 {
		return nil
	}

	found, err := ss.userRepository.FetchUsersByIDs(ctx, grantees)
	if err != nil {
		return err
	}
	if len(found) != len(grantees) {
		return fmt.Errorf("%s: %w", missingID(grantees, found), errs.ErrUserNotFound)
	}

	if err = ss.fileRepository.AddSharedUsers(ctx, f.UUID, f.Owner, grantees); err != nil {
		return err
	}

	ss.publish(mq.ActionShared, requester, f)
	ss.mCounter.WithLabelValues("file_shared_total").Inc()

	return nil
}

func (ss *ShareService) ListSharedUsers(ctx context.Context, id domain.UUID, requester user.UUID) (user.Users, error) {
	f, err := ss.ownedFile(ctx, id, requester)
	if err != nil {
		return nil, err
	}
	return ss.userRepository.FetchUsersByIDs(ctx, f.SharedWith)
}

// IssueShareLink mints a link valid for expiresInHours from now. Older links
// stay valid until their own expiry.
func (ss *ShareService) IssueShareLink(ctx context.Context, id domain.UUID, requester user.UUID, expiresInHours float64) (domain.ShareLink, error) {
	f, err := ss.ownedFile(ctx, id, requester)
	if err != nil {
		return domain.ShareLink{}, err
	}

	ttl, err := linkTTL(expiresInHours)
	if err != nil {
		return domain.ShareLink{}, err
	}

	var link domain.ShareLink
	for attempt := 1; ; attempt++ {
		token, err := ss.newToken()
		if err != nil {
			return domain.ShareLink{}, fmt.Errorf("generate share token: %w", err)
		}
		link = domain.ShareLink{Token: token, ExpiresAt: ss.now().UTC().Add(ttl)}

		err = ss.fileRepository.AddShareLink(ctx, f.UUID, link)
		if err == nil {
			break
		}
		if !errors.Is(err, domain.ErrTokenTaken) || attempt >= maxTokenAttempts {
			return domain.ShareLink{}, err
		}
		ss.logger.Warn("share token collision, regenerating", zap.Int("attempt", attempt))
	}

	ss.publish(mq.ActionLinkIssued, requester, f)
	ss.mCounter.WithLabelValues("share_link_issued_total").Inc()

	return link, nil
}

// OpenLink resolves a share token to its file and content. The token must be
// live; under the member policy the requester must also be the owner or a
// shared user.
func (ss *ShareService) OpenLink(ctx context.Context, token string, requester *user.UUID) (*domain.File, io.ReadCloser, error) {
	var (
		f   *domain.File
		err error
	)
	if token != "" {
		if f, err = ss.fileRepository.FetchFileByToken(ctx, token); err != nil {
			return nil, nil, err
		}
	}

	if d := domain.CanUseLink(f, requester, token, ss.now(), ss.policy); !d.Allowed {
		ss.mCounter.WithLabelValues("access_denied_total").Inc()
		ss.logger.Debug("share link refused", zap.String("reason", string(d.Reason)))
		return nil, nil, errs.ErrAccessDenied
	}

	rc, err := openContent(ctx, ss.storage, f)
	if err != nil {
		return nil, nil, err
	}

	ss.mCounter.WithLabelValues("share_link_opened_total").Inc()

	return f, rc, nil
}

func (ss *ShareService) ownedFile(ctx context.Context, id domain.UUID, requester user.UUID) (*domain.File, error) {
	f, err := ss.fileRepository.FetchFileByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, errs.ErrFileNotFound
	}
	if !f.IsOwner(requester) {
		ss.mCounter.WithLabelValues("access_denied_total").Inc()
		return nil, errs.ErrNotOwner
	}
	return f, nil
}

func (ss *ShareService) publish(action string, actor user.UUID, f *domain.File) {
	publishFileEvent(ss.mq, ss.now(), action, actor, f)
}

func linkTTL(hours float64) (time.Duration, error) {
	switch {
	case math.IsNaN(hours) || math.IsInf(hours, 0) || hours < MinLinkHours:
		return 0, errs.ErrInvalidDuration
	case hours > MaxLinkHours:
		return 0, errs.New(errs.KindInvalidDuration, fmt.Sprintf("expiresInHours must not exceed %d", int(MaxLinkHours)))
	}
	return time.Duration(hours * float64(time.Hour)), nil
}

func newShareToken() (string, error) {
	b := make([]byte, shareTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func uniqueIDs(ids []user.UUID) []user.UUID {
	seen := make(map[user.UUID]struct{}, len(ids))
	out := make([]user.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func missingID(want []user.UUID, found user.Users) string {
	have := make(map[user.UUID]struct{}, len(found))
	for _, u := range found {
		have[u.UUID] = struct{}{}
	}
	for _, id := range want {
		if _, ok := have[id]; !ok {
			return "user " + id.String()
		}
	}
	return "user"
}
