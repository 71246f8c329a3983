package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/magabrotheeeer/gym-membership/internal/models"
)

// userColumns — единый список колонок для выборки учётной записи.
const userColumns = `uid, phone_number, surname, name, patronymic, birth_date,
	       passport_number, passport_issued_by, passport_issue_date, passport_photo_url,
	       sub_plan, sub_duration, sub_start_date, sub_end_date,
	       created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	u := &models.User{}
	var (
		surname, name, patronymic                  sql.NullString
		birthDate                                  sql.NullTime
		passportNumber, passportIssuedBy, photoURL sql.NullString
		passportIssueDate                          sql.NullTime
		subPlan, subDuration                       sql.NullString
		subStartDate, subEndDate                   sql.NullTime
	)
	if err := row.Scan(&u.UID, &u.PhoneNumber, &surname, &name, &patronymic, &birthDate,
		&passportNumber, &passportIssuedBy, &passportIssueDate, &photoURL,
		&subPlan, &subDuration, &subStartDate, &subEndDate,
		&u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}

	u.Surname = surname.String
	u.Name = name.String
	u.Patronymic = patronymic.String
	if birthDate.Valid {
		u.BirthDate = &birthDate.Time
	}
	if passportNumber.Valid {
		u.Passport = &models.Passport{
			Number:    passportNumber.String,
			IssuedBy:  passportIssuedBy.String,
			IssueDate: passportIssueDate.Time,
		}
	}
	u.PassportPhotoURL = photoURL.String
	if subPlan.Valid {
		u.Subscription = &models.Subscription{
			Plan:      subPlan.String,
			Duration:  subDuration.String,
			StartDate: subStartDate.Time,
			EndDate:   subEndDate.Time,
		}
	}
	u.FullName = u.DisplayName()
	return u, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// CreateUser сохраняет новую учётную запись и возвращает её в полном виде.
// При нарушении уникальности номера телефона возвращает ErrUserExists.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (*models.User, error) {
	const op = "storage.CreateUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var passportNumber, passportIssuedBy sql.NullString
	var passportIssueDate sql.NullTime
	if user.Passport != nil {
		passportNumber = sql.NullString{String: user.Passport.Number, Valid: true}
		passportIssuedBy = sql.NullString{String: user.Passport.IssuedBy, Valid: true}
		passportIssueDate = sql.NullTime{Time: user.Passport.IssueDate, Valid: true}
	}

	query := `INSERT INTO users (uid, phone_number, surname, name, patronymic, birth_date,
			      passport_number, passport_issued_by, passport_issue_date,
			      created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			  RETURNING ` + userColumns
	row := s.DB.QueryRowContext(ctx, query,
		uuid.NewString(), user.PhoneNumber, user.Surname, user.Name, user.Patronymic,
		nullTime(user.BirthDate), passportNumber, passportIssuedBy, passportIssueDate,
		user.CreatedAt, user.UpdatedAt)

	created, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, fmt.Errorf("%s: %w", op, ErrUserExists)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return created, nil
}

// ExistsByPhone проверяет, есть ли учётная запись с таким номером телефона.
func (s *Storage) ExistsByPhone(ctx context.Context, phoneNumber string) (bool, error) {
	const op = "storage.ExistsByPhone"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE phone_number = $1)`
	if err := s.DB.QueryRowContext(ctx, query, phoneNumber).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// GetUserByPhone возвращает учётную запись по номеру телефона.
func (s *Storage) GetUserByPhone(ctx context.Context, phoneNumber string) (*models.User, error) {
	const op = "storage.GetUserByPhone"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE phone_number = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, phoneNumber))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetUserByUID возвращает учётную запись по её идентификатору.
func (s *Storage) GetUserByUID(ctx context.Context, uid string) (*models.User, error) {
	const op = "storage.GetUserByUID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE uid = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, uid))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// ListUsers возвращает все учётные записи в порядке создания.
func (s *Storage) ListUsers(ctx context.Context) ([]*models.User, error) {
	const op = "storage.ListUsers"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateName заменяет ФИО и дату рождения по номеру телефона.
// Отчество записывается как есть, в том числе пустой строкой.
func (s *Storage) UpdateName(ctx context.Context, phoneNumber, surname, name, patronymic string, birthDate time.Time) (*models.User, error) {
	const op = "storage.UpdateName"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET surname = $2, name = $3, patronymic = $4, birth_date = $5, updated_at = now()
			  WHERE phone_number = $1
			  RETURNING ` + userColumns
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, phoneNumber, surname, name, patronymic, birthDate))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// UpdatePassport заменяет паспортные данные целиком. Путь к фото обновляется
// только если photoURL не nil: загрузка фото необязательна, прежний путь
// при её отсутствии сохраняется.
func (s *Storage) UpdatePassport(ctx context.Context, phoneNumber string, passport models.Passport, photoURL *string) (*models.User, error) {
	const op = "storage.UpdatePassport"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var photo sql.NullString
	if photoURL != nil {
		photo = sql.NullString{String: *photoURL, Valid: true}
	}

	query := `UPDATE users
			  SET passport_number = $2, passport_issued_by = $3, passport_issue_date = $4,
			      passport_photo_url = COALESCE($5, passport_photo_url),
			      updated_at = now()
			  WHERE phone_number = $1
			  RETURNING ` + userColumns
	u, err := scanUser(s.DB.QueryRowContext(ctx, query,
		phoneNumber, passport.Number, passport.IssuedBy, passport.IssueDate, photo))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// UpdateSubscriptionByUID заменяет абонемент целиком по идентификатору записи.
// Остаток времени прежнего абонемента не переносится.
func (s *Storage) UpdateSubscriptionByUID(ctx context.Context, uid string, sub models.Subscription) (*models.User, error) {
	const op = "storage.UpdateSubscriptionByUID"
	return s.updateSubscription(ctx, op, "uid", uid, sub)
}

// UpdateSubscriptionByPhone заменяет абонемент целиком по номеру телефона.
func (s *Storage) UpdateSubscriptionByPhone(ctx context.Context, phoneNumber string, sub models.Subscription) (*models.User, error) {
	const op = "storage.UpdateSubscriptionByPhone"
	return s.updateSubscription(ctx, op, "phone_number", phoneNumber, sub)
}

func (s *Storage) updateSubscription(ctx context.Context, op, keyColumn, key string, sub models.Subscription) (*models.User, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET sub_plan = $2, sub_duration = $3, sub_start_date = $4, sub_end_date = $5,
			      updated_at = now()
			  WHERE ` + keyColumn + ` = $1
			  RETURNING ` + userColumns
	u, err := scanUser(s.DB.QueryRowContext(ctx, query,
		key, sub.Plan, sub.Duration, sub.StartDate, sub.EndDate))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}
