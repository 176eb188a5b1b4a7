package gallery

import (
	"context"
	"mime/multipart"

	"dogsalon/internal/pkg/pagination"

	"go.uber.org/zap"
)

const dir = "gallery"

type Service struct {
	store *Store
	log   *zap.Logger
}

func NewService(store *Store, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, log: log.Named("gallery")}
}

func (s *Service) List(ctx context.Context, page int) (pagination.Page[Image], error) {
	images, err := s.store.List(ctx, dir)
	if err != nil {
		return pagination.Page[Image]{}, err
	}
	return pagination.Slice(images, page, pagination.PageSize), nil
}

func (s *Service) Upload(ctx context.Context, fh *multipart.FileHeader) (*Image, error) {
	img, err := s.store.Save(ctx, dir, fh)
	if err != nil {
		return nil, err
	}
	s.log.Info("image uploaded", zap.String("name", img.Name), zap.Int64("size", img.Size))
	return img, nil
}

func (s *Service) Delete(ctx context.Context, name string) error {
	if err := s.store.Delete(ctx, dir, name); err != nil {
		return err
	}
	s.log.Info("image deleted", zap.String("name", name))
	return nil
}
