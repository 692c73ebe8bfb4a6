package identity

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/duotopia/backend/internal/domain/models"
)

// Service is the L0 identity store's business logic: teacher
// signup/login/session-refresh/password-change, and student roster
// entries. It sits below internal/authz in the dependency order and
// performs no permission checks itself. The roster routes carry no
// route-registry descriptor and their handlers check nothing, so a
// roster mutation reaches here without any classroom permission check.
type Service struct {
	repo       Repository
	jwtManager *JWTManager
}

// NewService constructs a Service.
func NewService(repo Repository, jwtManager *JWTManager) *Service {
	return &Service{repo: repo, jwtManager: jwtManager}
}

// RegisterTeacher creates a new teacher account with a bcrypt-hashed
// credential. An existing account with the same email, found by a
// lookup before the insert, is surfaced as errEmailTaken; the storage
// layer's unique index (§3 "Teacher: ... email (unique)") also rejects
// a duplicate insert, and that error is returned as-is.
func (s *Service) RegisterTeacher(ctx context.Context, email, displayName, password string) (*models.Teacher, error) {
	email = strings.TrimSpace(email)
	displayName = strings.TrimSpace(displayName)
	if email == "" {
		return nil, errEmailRequired()
	}
	if displayName == "" {
		return nil, errDisplayNameRequired()
	}

	if existing, err := s.repo.FindTeacherByEmail(ctx, email); err == nil && existing != nil {
		return nil, errEmailTaken()
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	teacher := &models.Teacher{
		Email:          email,
		DisplayName:    displayName,
		CredentialHash: string(hash),
		IsActive:       true,
	}
	if err := teacher.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.CreateTeacher(ctx, teacher); err != nil {
		return nil, err
	}
	return teacher, nil
}

// Authenticate verifies email/password and mints a session token pair.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*LoginResponse, *models.Teacher, error) {
	teacher, err := s.repo.FindTeacherByEmail(ctx, email)
	if err != nil {
		return nil, nil, errInvalidCredentials()
	}
	if !teacher.IsActive {
		return nil, nil, errAccountInactive()
	}
	if err := bcrypt.CompareHashAndPassword([]byte(teacher.CredentialHash), []byte(password)); err != nil {
		return nil, nil, errInvalidCredentials()
	}

	pair, err := s.jwtManager.GenerateTokenPair(TokenClaims{TeacherID: teacher.ID, Email: teacher.Email})
	if err != nil {
		return nil, nil, err
	}

	return &LoginResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
		TokenType:    "Bearer",
		Teacher:      toTeacherResponse(teacher),
	}, teacher, nil
}

// RefreshAccessToken reissues a token pair from a valid refresh token.
func (s *Service) RefreshAccessToken(ctx context.Context, refreshToken string) (*RefreshTokenResponse, error) {
	claims, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	teacher, err := s.repo.FindTeacherByID(ctx, claims.TeacherID)
	if err != nil {
		return nil, err
	}
	if !teacher.IsActive {
		return nil, errAccountInactive()
	}

	pair, err := s.jwtManager.GenerateTokenPair(TokenClaims{TeacherID: teacher.ID, Email: teacher.Email})
	if err != nil {
		return nil, err
	}

	return &RefreshTokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
		TokenType:    "Bearer",
	}, nil
}

// ChangePassword verifies the current password and replaces it with a
// newly hashed one, rejecting an unchanged password.
func (s *Service) ChangePassword(ctx context.Context, teacherID uint, currentPassword, newPassword string) error {
	teacher, err := s.repo.FindTeacherByID(ctx, teacherID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(teacher.CredentialHash), []byte(currentPassword)); err != nil {
		return errPasswordMismatch()
	}
	if err := bcrypt.CompareHashAndPassword([]byte(teacher.CredentialHash), []byte(newPassword)); err == nil {
		return errSamePassword()
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.repo.UpdateTeacherCredentialHash(ctx, teacherID, string(hash))
}

// GetTeacher returns a teacher's public profile.
func (s *Service) GetTeacher(ctx context.Context, teacherID uint) (*models.Teacher, error) {
	return s.repo.FindTeacherByID(ctx, teacherID)
}

// CreateStudent adds a student to a classroom's roster with a
// bcrypt-hashed credential. Classroom ownership/domain authorization is
// the caller's responsibility (see package doc).
func (s *Service) CreateStudent(ctx context.Context, req CreateStudentRequest) (*models.Student, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, errNameRequired()
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	student := &models.Student{
		ClassroomID:    req.ClassroomID,
		Name:           name,
		CredentialHash: string(hash),
		IsActive:       true,
	}
	if err := student.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.CreateStudent(ctx, student); err != nil {
		return nil, err
	}
	return student, nil
}

// ListStudentsByClassroom returns every roster entry for a classroom.
func (s *Service) ListStudentsByClassroom(ctx context.Context, classroomID uint) ([]models.Student, error) {
	return s.repo.ListStudentsByClassroom(ctx, classroomID)
}

// SetStudentActive activates or deactivates a student's account.
func (s *Service) SetStudentActive(ctx context.Context, studentID uint, active bool) error {
	return s.repo.UpdateStudentActive(ctx, studentID, active)
}

func toTeacherResponse(teacher *models.Teacher) TeacherResponse {
	return TeacherResponse{
		ID:          teacher.ID,
		Email:       teacher.Email,
		DisplayName: teacher.DisplayName,
		IsActive:    teacher.IsActive,
	}
}

func toStudentResponse(student *models.Student) StudentResponse {
	return StudentResponse{
		ID:          student.ID,
		ClassroomID: student.ClassroomID,
		Name:        student.Name,
		IsActive:    student.IsActive,
	}
}
