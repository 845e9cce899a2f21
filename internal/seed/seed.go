// Package seed loads the demo school: three users, classes 7 to 12 with
// their sections or groups, the subject catalogue, a sample English
// syllabus and one teacher assignment. Rows that already exist are kept.
package seed

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/sma-syllabus-api/internal/models"
	"github.com/noah-isme/sma-syllabus-api/pkg/dbctx"
)

type userStore interface {
	FindByUsername(dbc dbctx.Context, username string) (*models.User, error)
	Create(dbc dbctx.Context, user *models.User) error
}

type classStore interface {
	List(dbc dbctx.Context) ([]models.Class, error)
	Create(dbc dbctx.Context, class *models.Class) error
	ListSections(dbc dbctx.Context, classID *int64) ([]models.Section, error)
	ListGroups(dbc dbctx.Context, classID *int64) ([]models.Group, error)
	CreateSection(dbc dbctx.Context, section *models.Section) error
	CreateGroup(dbc dbctx.Context, group *models.Group) error
}

type subjectStore interface {
	List(dbc dbctx.Context, classID *int64) ([]models.SubjectDetail, error)
	Create(dbc dbctx.Context, subject *models.Subject) error
}

type syllabusStore interface {
	Tree(dbc dbctx.Context, subjectIDs []int64) ([]models.SyllabusRow, error)
	CreateChapter(dbc dbctx.Context, chapter *models.Chapter) error
	CreateTopic(dbc dbctx.Context, topic *models.Topic) error
}

type assignmentStore interface {
	Exists(dbc dbctx.Context, assignment *models.TeacherAssignment) (bool, error)
	Create(dbc dbctx.Context, assignment *models.TeacherAssignment) error
}

type txRunner interface {
	WithinTx(ctx context.Context, fn func(dbc dbctx.Context) error) error
}

// DemoUser is a login created by the seeder.
type DemoUser struct {
	Username string
	Email    string
	FullName string
	Role     models.UserRole
	Password string
}

// DemoUsers are the default logins.
var DemoUsers = []DemoUser{
	{Username: "admin", Email: "admin@school.edu", FullName: "Admin User", Role: models.RoleAdmin, Password: "admin123"},
	{Username: "teacher1", Email: "teacher1@school.edu", FullName: "Ahmed Khan", Role: models.RoleTeacher, Password: "teacher123"},
	{Username: "principal", Email: "principal@school.edu", FullName: "Principal Niazi", Role: models.RolePrincipal, Password: "principal123"},
}

var (
	sectionNames = []string{"A", "B"}
	groupNames   = []string{"Medical", "Engineering", "ICS"}

	// Senior classes carry the union of their groups' subjects.
	subjectCatalogue = map[string][]string{
		"Class 7":  {"English", "Urdu", "Science", "Islamiyat", "Maths", "Computer", "Social Studies"},
		"Class 8":  {"English", "Urdu", "Science", "Islamiyat", "Maths", "Computer", "Social Studies"},
		"Class 9":  {"English", "Urdu", "Physics", "Biology", "Chemistry", "Maths", "Islamiyat", "Pakistan Studies"},
		"Class 10": {"English", "Urdu", "Physics", "Biology", "Chemistry", "Maths", "Islamiyat", "Pakistan Studies"},
		"Class 11": {"English", "Urdu", "Biology", "Islamiyat", "Chemistry", "Physics", "Maths", "Computer"},
		"Class 12": {"English", "Urdu", "Biology", "Pakistan Studies", "Chemistry", "Physics", "Maths", "Computer"},
	}

	sampleSyllabus = []struct {
		chapter string
		topics  []string
	}{
		{chapter: "Grammar Basics", topics: []string{"Nouns and Pronouns", "Verbs and Tenses"}},
		{chapter: "Short Stories", topics: []string{"The Little Prince"}},
	}
)

const (
	sampleClass   = "Class 7"
	sampleSubject = "English"
	sampleSection = "A"
	sampleTeacher = "teacher1"
)

// Stores bundles the repositories the seeder writes through.
type Stores struct {
	Users       userStore
	Classes     classStore
	Subjects    subjectStore
	Syllabus    syllabusStore
	Assignments assignmentStore
}

// Summary counts the rows the seeder inserted.
type Summary struct {
	Users       int
	Classes     int
	Sections    int
	Groups      int
	Subjects    int
	Chapters    int
	Topics      int
	Assignments int
}

// Seeder writes the demo data in a single transaction.
type Seeder struct {
	stores   Stores
	tx       txRunner
	logger   *zap.Logger
	hashCost int
}

// New constructs a Seeder.
func New(stores Stores, tx txRunner, logger *zap.Logger) *Seeder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Seeder{stores: stores, tx: tx, logger: logger, hashCost: bcrypt.DefaultCost}
}

// Run inserts whatever demo rows are missing.
func (s *Seeder) Run(ctx context.Context) (Summary, error) {
	var sum Summary
	err := s.tx.WithinTx(ctx, func(dbc dbctx.Context) error {
		sum = Summary{}
		users, err := s.seedUsers(dbc, &sum)
		if err != nil {
			return err
		}
		classes, err := s.seedClasses(dbc, &sum)
		if err != nil {
			return err
		}
		return s.seedSample(dbc, &sum, users[sampleTeacher], classes[sampleClass])
	})
	if err != nil {
		return Summary{}, err
	}
	s.logger.Info("seed complete",
		zap.Int("users", sum.Users),
		zap.Int("classes", sum.Classes),
		zap.Int("subjects", sum.Subjects),
		zap.Int("topics", sum.Topics),
		zap.Int("assignments", sum.Assignments),
	)
	return sum, nil
}

func (s *Seeder) seedUsers(dbc dbctx.Context, sum *Summary) (map[string]*models.User, error) {
	out := make(map[string]*models.User, len(DemoUsers))
	for _, demo := range DemoUsers {
		user, err := s.stores.Users.FindByUsername(dbc, demo.Username)
		if err == nil {
			out[demo.Username] = user
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("find user %s: %w", demo.Username, err)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(demo.Password), s.hashCost)
		if err != nil {
			return nil, fmt.Errorf("hash password for %s: %w", demo.Username, err)
		}
		user = &models.User{
			Username:     demo.Username,
			Email:        demo.Email,
			FullName:     demo.FullName,
			Role:         demo.Role,
			PasswordHash: string(hash),
		}
		if err := s.stores.Users.Create(dbc, user); err != nil {
			return nil, fmt.Errorf("create user %s: %w", demo.Username, err)
		}
		sum.Users++
		out[demo.Username] = user
	}
	return out, nil
}

func (s *Seeder) seedClasses(dbc dbctx.Context, sum *Summary) (map[string]models.Class, error) {
	existing, err := s.stores.Classes.List(dbc)
	if err != nil {
		return nil, fmt.Errorf("list classes: %w", err)
	}
	byName := make(map[string]models.Class, len(existing))
	for _, class := range existing {
		byName[class.Name] = class
	}

	for i, name := range models.ClassNames {
		class, ok := byName[name]
		if !ok {
			class = models.Class{Name: name}
			if err := s.stores.Classes.Create(dbc, &class); err != nil {
				return nil, fmt.Errorf("create %s: %w", name, err)
			}
			byName[name] = class
			sum.Classes++
		}
		// The four junior classes are split into sections, seniors into groups.
		if i < 4 {
			err = s.seedSections(dbc, sum, class.ID)
		} else {
			err = s.seedGroups(dbc, sum, class.ID)
		}
		if err != nil {
			return nil, err
		}
		if err := s.seedSubjects(dbc, sum, class); err != nil {
			return nil, err
		}
	}
	return byName, nil
}

func (s *Seeder) seedSections(dbc dbctx.Context, sum *Summary, classID int64) error {
	sections, err := s.stores.Classes.ListSections(dbc, &classID)
	if err != nil {
		return fmt.Errorf("list sections: %w", err)
	}
	have := map[string]bool{}
	for _, sec := range sections {
		have[sec.Name] = true
	}
	for _, name := range sectionNames {
		if have[name] {
			continue
		}
		if err := s.stores.Classes.CreateSection(dbc, &models.Section{Name: name, ClassID: classID}); err != nil {
			return fmt.Errorf("create section %s: %w", name, err)
		}
		sum.Sections++
	}
	return nil
}

func (s *Seeder) seedGroups(dbc dbctx.Context, sum *Summary, classID int64) error {
	groups, err := s.stores.Classes.ListGroups(dbc, &classID)
	if err != nil {
		return fmt.Errorf("list groups: %w", err)
	}
	have := map[string]bool{}
	for _, g := range groups {
		have[g.Name] = true
	}
	for _, name := range groupNames {
		if have[name] {
			continue
		}
		if err := s.stores.Classes.CreateGroup(dbc, &models.Group{Name: name, ClassID: classID}); err != nil {
			return fmt.Errorf("create group %s: %w", name, err)
		}
		sum.Groups++
	}
	return nil
}

func (s *Seeder) seedSubjects(dbc dbctx.Context, sum *Summary, class models.Class) error {
	subjects, err := s.stores.Subjects.List(dbc, &class.ID)
	if err != nil {
		return fmt.Errorf("list subjects: %w", err)
	}
	have := map[string]bool{}
	for _, subj := range subjects {
		have[subj.Name] = true
	}
	for _, name := range subjectCatalogue[class.Name] {
		if have[name] {
			continue
		}
		if err := s.stores.Subjects.Create(dbc, &models.Subject{Name: name, ClassID: class.ID}); err != nil {
			return fmt.Errorf("create subject %s for %s: %w", name, class.Name, err)
		}
		have[name] = true
		sum.Subjects++
	}
	return nil
}

func (s *Seeder) seedSample(dbc dbctx.Context, sum *Summary, teacher *models.User, class models.Class) error {
	subjects, err := s.stores.Subjects.List(dbc, &class.ID)
	if err != nil {
		return fmt.Errorf("list subjects: %w", err)
	}
	var subjectID int64
	for _, subj := range subjects {
		if subj.Name == sampleSubject {
			subjectID = subj.ID
			break
		}
	}
	if subjectID == 0 {
		return fmt.Errorf("sample subject %s missing from %s", sampleSubject, class.Name)
	}

	rows, err := s.stores.Syllabus.Tree(dbc, []int64{subjectID})
	if err != nil {
		return fmt.Errorf("load sample syllabus: %w", err)
	}
	chapters := map[string]int64{}
	topics := map[int64]map[string]bool{}
	for _, row := range rows {
		if row.ChapterID == nil || row.ChapterName == nil {
			continue
		}
		chapters[*row.ChapterName] = *row.ChapterID
		if topics[*row.ChapterID] == nil {
			topics[*row.ChapterID] = map[string]bool{}
		}
		if row.TopicName != nil {
			topics[*row.ChapterID][*row.TopicName] = true
		}
	}

	for _, sample := range sampleSyllabus {
		chapterID, ok := chapters[sample.chapter]
		if !ok {
			chapter := &models.Chapter{Name: sample.chapter, SubjectID: subjectID}
			if err := s.stores.Syllabus.CreateChapter(dbc, chapter); err != nil {
				return fmt.Errorf("create chapter %s: %w", sample.chapter, err)
			}
			chapterID = chapter.ID
			sum.Chapters++
		}
		for _, name := range sample.topics {
			if topics[chapterID][name] {
				continue
			}
			if err := s.stores.Syllabus.CreateTopic(dbc, &models.Topic{Name: name, ChapterID: chapterID}); err != nil {
				return fmt.Errorf("create topic %s: %w", name, err)
			}
			sum.Topics++
		}
	}

	sections, err := s.stores.Classes.ListSections(dbc, &class.ID)
	if err != nil {
		return fmt.Errorf("list sections: %w", err)
	}
	assignment := &models.TeacherAssignment{TeacherID: teacher.ID, ClassID: class.ID, SubjectID: subjectID}
	for _, sec := range sections {
		if sec.Name == sampleSection {
			id := sec.ID
			assignment.SectionID = &id
		}
	}
	exists, err := s.stores.Assignments.Exists(dbc, assignment)
	if err != nil {
		return fmt.Errorf("check sample assignment: %w", err)
	}
	if exists {
		return nil
	}
	if err := s.stores.Assignments.Create(dbc, assignment); err != nil {
		return fmt.Errorf("create sample assignment: %w", err)
	}
	sum.Assignments++
	return nil
}
