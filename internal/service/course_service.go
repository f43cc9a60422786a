package service

import (
	"context"
	"fmt"

	"github.com/lshigami/examprep/internal/dto"
	"github.com/lshigami/examprep/internal/repository"
)

type CourseService interface {
	ListCourses(ctx context.Context) ([]dto.CourseDTO, error)
	GetCourse(ctx context.Context, courseID uint) (*dto.CourseDTO, error)
}

type courseService struct {
	courseRepo repository.CourseRepository
}

func NewCourseService(courseRepo repository.CourseRepository) CourseService {
	return &courseService{courseRepo: courseRepo}
}

func (s *courseService) ListCourses(ctx context.Context) ([]dto.CourseDTO, error) {
	courses, err := s.courseRepo.FindAll(ctx)
	if err != nil {
		return nil, dbError(err, "")
	}
	out := make([]dto.CourseDTO, 0, len(courses))
	for i := range courses {
		out = append(out, toCourseDTO(&courses[i]))
	}
	return out, nil
}

func (s *courseService) GetCourse(ctx context.Context, courseID uint) (*dto.CourseDTO, error) {
	course, err := s.courseRepo.FindByID(ctx, courseID)
	if err != nil {
		return nil, dbError(err, fmt.Sprintf("course %d not found", courseID))
	}
	out := toCourseDTO(course)
	return &out, nil
}
