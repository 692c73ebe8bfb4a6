package speech

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/sync/singleflight"

	"github.com/duotopia/backend/internal/apperr"
	"github.com/duotopia/backend/internal/config"
	"github.com/duotopia/backend/internal/shared/metrics"
	sharedredis "github.com/duotopia/backend/internal/shared/redis"
)

// credentialTTL is the scoped-credential lifetime (§4.3.a "Token
// lifetime ≤ 10 minutes").
const credentialTTL = 10 * time.Minute

// PrincipalKind is who a scoped credential is issued to.
type PrincipalKind string

const (
	PrincipalTeacher PrincipalKind = "teacher" // preview mode, no persistence on upload
	PrincipalStudent PrincipalKind = "student"
	PrincipalDemo    PrincipalKind = "demo" // unauthenticated, rate-limited by IP
)

// Principal identifies who is requesting a credential or uploading a
// result. Key is the rate-limit / single-flight coalescing key: a
// stable per-account key for teacher/student, the caller's IP for demo.
type Principal struct {
	Kind PrincipalKind
	ID   uint
	Key  string
}

// NewTeacherPrincipal builds a preview-mode Principal.
func NewTeacherPrincipal(teacherID uint) Principal {
	return Principal{Kind: PrincipalTeacher, ID: teacherID, Key: fmt.Sprintf("teacher:%d", teacherID)}
}

// NewStudentPrincipal builds a Principal for an authenticated student.
func NewStudentPrincipal(studentID uint) Principal {
	return Principal{Kind: PrincipalStudent, ID: studentID, Key: fmt.Sprintf("student:%d", studentID)}
}

// NewDemoPrincipal builds a Principal for an unauthenticated caller,
// rate-limited by IP address.
func NewDemoPrincipal(ip string) Principal {
	return Principal{Kind: PrincipalDemo, Key: "demo:" + ip}
}

// unlimited reports whether p is exempt from the daily quota (§4.3.a
// "unlimited for authenticated").
func (p Principal) unlimited() bool {
	return p.Kind != PrincipalDemo
}

type credentialClaims struct {
	PrincipalKind PrincipalKind `json:"principal_kind"`
	PrincipalID   uint          `json:"principal_id"`
	jwt.RegisteredClaims
}

// quotaStore is the subset of internal/shared/redis.Client the quota
// check needs, narrowed to an interface so tests can fake it.
type quotaStore interface {
	Increment(ctx context.Context, key string) (int64, error)
	Expire(ctx context.Context, key string, expiration time.Duration) error
}

// CredentialIssuer mints scoped, short-lived provider credentials and
// enforces the per-principal daily quota for unauthenticated demo
// callers. Concurrent issuance requests for the same principal
// coalesce onto a single outstanding issuance via singleflight (§5).
type CredentialIssuer struct {
	redis     quotaStore
	group     singleflight.Group
	secret    []byte
	region    string
	demoQuota int
}

// NewCredentialIssuer constructs a CredentialIssuer.
func NewCredentialIssuer(jwtCfg config.JWTConfig, providerCfg config.ProviderConfig, workerCfg config.WorkerConfig, redisClient *sharedredis.Client) *CredentialIssuer {
	return &CredentialIssuer{
		redis:     redisClient,
		secret:    []byte(jwtCfg.SecretKey),
		region:    providerCfg.Region,
		demoQuota: workerCfg.DemoDailyTokenQuota,
	}
}

// IssueCredential mints a Credential for principal, enforcing the
// daily quota when principal is unauthenticated demo traffic.
func (ci *CredentialIssuer) IssueCredential(ctx context.Context, principal Principal) (*Credential, error) {
	result, err, _ := ci.group.Do(principal.Key, func() (interface{}, error) {
		if !principal.unlimited() {
			if err := ci.checkAndConsumeQuota(ctx, principal); err != nil {
				return nil, err
			}
		}

		token, err := ci.signToken(principal)
		if err != nil {
			return nil, err
		}

		return &Credential{
			Token:     token,
			Region:    ci.region,
			ExpiresIn: int64(credentialTTL.Seconds()),
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*Credential), nil
}

func (ci *CredentialIssuer) signToken(principal Principal) (string, error) {
	now := time.Now()
	claims := credentialClaims{
		PrincipalKind: principal.Kind,
		PrincipalID:   principal.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(credentialTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(ci.secret)
}

// checkAndConsumeQuota increments today's counter for principal and
// refuses with a structured rate-limit error once the demo quota is
// exceeded (§4.3.a, S6).
func (ci *CredentialIssuer) checkAndConsumeQuota(ctx context.Context, principal Principal) error {
	dayKey := time.Now().UTC().Format("2006-01-02")
	key := fmt.Sprintf("speech:quota:%s:%s", principal.Key, dayKey)

	count, err := ci.redis.Increment(ctx, key)
	if err != nil {
		return err
	}
	if count == 1 {
		if err := ci.redis.Expire(ctx, key, 24*time.Hour); err != nil {
			return err
		}
	}

	if int(count) > ci.demoQuota {
		metrics.QuotaRejectionsTotal.Inc()
		resetAt := time.Now().UTC().Truncate(24 * time.Hour).Add(24 * time.Hour)
		return apperr.RateLimit("daily_limit_exceeded", apperr.RateLimitDetail{
			Limit:      ci.demoQuota,
			ResetAt:    resetAt,
			Suggestion: "sign in for unlimited access",
		})
	}
	return nil
}
