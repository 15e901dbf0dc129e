package main

import (
	"flag"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"trainr/config"
	"trainr/database"
	"trainr/logger"
	"trainr/models"
	"trainr/models/course"
	"trainr/outline"
)

// courseFile is the YAML layout of an importable course outline.
type courseFile struct {
	Title        string `yaml:"title"`
	Description  string `yaml:"description"`
	ThumbnailURL string `yaml:"thumbnail_url"`
	Publish      bool   `yaml:"publish"`
	Modules      []struct {
		Title       string `yaml:"title"`
		Description string `yaml:"description"`
		Lessons     []struct {
			Title    string `yaml:"title"`
			Video    string `yaml:"video"`
			Duration int    `yaml:"duration"`
			Resource string `yaml:"resource"`
			Preview  bool   `yaml:"preview"`
		} `yaml:"lessons"`
	} `yaml:"modules"`
}

func main() {
	file := flag.String("file", "course.yaml", "YAML course outline to import")
	email := flag.String("instructor", "", "email of the owning instructor")
	flag.Parse()

	config.LoadConfig()
	if err := logger.Init(config.AppConfig.LogMode); err != nil {
		panic(err)
	}
	defer logger.Log.Sync()
	database.ConnectDb()

	f, err := os.Open(*file)
	if err != nil {
		logger.Log.Fatal("failed to open course file", "file", *file, "error", err)
	}
	defer f.Close()

	outlineFile, err := parseCourse(f)
	if err != nil {
		logger.Log.Fatal("failed to read course file", "file", *file, "error", err)
	}

	db := database.Database.Db
	var instructor models.User
	if err := db.Where("email = ? AND is_deleted = ?", strings.ToLower(*email), false).First(&instructor).Error; err != nil {
		logger.Log.Fatal("instructor not found", "email", *email, "error", err)
	}
	if !instructor.CanTeach() {
		logger.Log.Fatal("user cannot own courses", "email", *email, "role", instructor.Role)
	}

	crs, err := importCourse(db, instructor.ID, outlineFile)
	if err != nil {
		logger.Log.Fatal("import failed", "error", err)
	}

	logger.Log.Info("import complete",
		"course_id", crs.ID,
		"modules", len(crs.Modules),
		"lessons", crs.LessonCount(),
		"duration", outline.TotalDuration(outline.Flatten(crs)),
	)
}

func parseCourse(r io.Reader) (courseFile, error) {
	var cf courseFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cf); err != nil {
		return cf, errors.Wrap(err, "decoding yaml")
	}
	if strings.TrimSpace(cf.Title) == "" {
		return cf, errors.New("course title is required")
	}
	for mi, m := range cf.Modules {
		if strings.TrimSpace(m.Title) == "" {
			return cf, errors.Errorf("module %d has no title", mi)
		}
		for li, l := range m.Lessons {
			if strings.TrimSpace(l.Title) == "" {
				return cf, errors.Errorf("lesson %d of module %q has no title", li, m.Title)
			}
			if l.Duration < 0 {
				return cf, errors.Errorf("lesson %q has a negative duration", l.Title)
			}
		}
	}
	return cf, nil
}

// importCourse writes the whole outline in one transaction. Order indexes follow the file order.
func importCourse(db *gorm.DB, instructorID uint, cf courseFile) (course.Course, error) {
	crs := course.Course{
		InstructorID: instructorID,
		Title:        strings.TrimSpace(cf.Title),
		Description:  strings.TrimSpace(cf.Description),
		ThumbnailURL: cf.ThumbnailURL,
		IsPublished:  cf.Publish,
		Modules:      make([]course.Module, 0, len(cf.Modules)),
	}
	for mi, m := range cf.Modules {
		module := course.Module{
			Title:       strings.TrimSpace(m.Title),
			Description: strings.TrimSpace(m.Description),
			OrderIndex:  mi,
			Lessons:     make([]course.Lesson, 0, len(m.Lessons)),
		}
		for li, l := range m.Lessons {
			module.Lessons = append(module.Lessons, course.Lesson{
				Title:       strings.TrimSpace(l.Title),
				VideoURL:    strings.TrimSpace(l.Video),
				Duration:    l.Duration,
				ResourceURL: strings.TrimSpace(l.Resource),
				IsPreview:   l.Preview,
				OrderIndex:  li,
			})
		}
		crs.Modules = append(crs.Modules, module)
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&crs).Error
	})
	if err != nil {
		return course.Course{}, errors.Wrap(err, "saving course")
	}
	return crs, nil
}
