package services

import (
	"context"
	"strings"

	"mediacms/models"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// CastService 演员和导演
type CastService struct {
	db        *gorm.DB
	describer Describer
}

// NewCastService 创建演职人员服务
func NewCastService(db *gorm.DB, describer Describer) *CastService {
	if describer == nil {
		describer = NopDescriber{}
	}
	return &CastService{db: db, describer: describer}
}

// castTable 角色对应的表名
func castTable(role string) (string, error) {
	switch role {
	case RoleActor:
		return models.Actor{}.TableName(), nil
	case RoleDirector:
		return models.Director{}.TableName(), nil
	}
	return "", NewValidationError("未知的角色类型: %s", role)
}

// SplitCastNames 按中文或英文逗号拆分名单，去掉空白和空项
func SplitCastNames(names string) []string {
	parts := strings.FieldsFunc(names, func(r rune) bool {
		return r == '，' || r == ','
	})

	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if name := strings.TrimSpace(p); name != "" {
			result = append(result, name)
		}
	}
	return result
}

// ProcessCast 处理逗号分隔的名单，已有同名人员直接复用
func (s *CastService) ProcessCast(ctx context.Context, names string, role string) ([]models.Person, error) {
	if _, err := castTable(role); err != nil {
		return nil, err
	}

	people := []models.Person{}
	for _, name := range SplitCastNames(names) {
		person, err := s.GetOrCreate(ctx, name, role)
		if err != nil {
			return nil, err
		}
		people = append(people, *person)
	}
	return people, nil
}

// GetOrCreate 按姓名查找，不存在则创建；并发插入冲突时重新查找
func (s *CastService) GetOrCreate(ctx context.Context, name, role string) (*models.Person, error) {
	table, err := castTable(role)
	if err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, NewValidationError("姓名不能为空")
	}

	if person, err := s.findPerson(ctx, table, name); err != nil || person != nil {
		return person, err
	}

	person := models.Person{
		Name:        name,
		Description: describeOrFallback(ctx, s.describer, name, role),
		Status:      "active",
	}
	err = s.db.WithContext(ctx).Table(table).Create(&person).Error
	if err == nil {
		return &person, nil
	}
	if !isDuplicateKey(err) {
		return nil, errors.Wrapf(err, "创建%s失败", table)
	}

	log.WithField("name", name).Debug("并发创建同名人员，重新查找")
	existing, err := s.findPerson(ctx, table, name)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, errors.Wrapf(ErrConflict, "%s %s", table, name)
	}
	return existing, nil
}

func (s *CastService) findPerson(ctx context.Context, table, name string) (*models.Person, error) {
	var person models.Person
	err := s.db.WithContext(ctx).Table(table).Where("name = ?", name).Take(&person).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "查询%s失败", table)
	}
	return &person, nil
}

// AttachCast 把演员/导演关联到视频，排序接在已有人员后面
func (s *CastService) AttachCast(ctx context.Context, videoID uint, names []string, role string) ([]models.Person, error) {
	if _, err := castTable(role); err != nil {
		return nil, err
	}
	if err := requireVideo(s.db.WithContext(ctx), videoID); err != nil {
		return nil, err
	}

	// 先准备好人员（可能调用AI接口），再在事务中写关联
	people := make([]models.Person, 0, len(names))
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			continue
		}
		person, err := s.GetOrCreate(ctx, name, role)
		if err != nil {
			return nil, err
		}
		people = append(people, *person)
	}
	if len(people) == 0 {
		return nil, NewValidationError("名单不能为空")
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return attachCastTx(tx, videoID, people, role)
	})
	if err != nil {
		return nil, err
	}
	return people, nil
}

// attachCastTx 写入关联行，重复关联返回 ErrConflict
func attachCastTx(tx *gorm.DB, videoID uint, people []models.Person, role string) error {
	var existing int64
	var err error
	if role == RoleActor {
		err = tx.Model(&models.VideoActor{}).Where("video_id = ?", videoID).Count(&existing).Error
	} else {
		err = tx.Model(&models.VideoDirector{}).Where("video_id = ?", videoID).Count(&existing).Error
	}
	if err != nil {
		return err
	}

	for i, person := range people {
		order := int(existing) + i
		if role == RoleActor {
			link := models.VideoActor{
				VideoID: videoID,
				ActorID: person.ID,
				IsMain:  order == 0,
				Order:   order,
			}
			err = tx.Create(&link).Error
		} else {
			link := models.VideoDirector{
				VideoID:    videoID,
				DirectorID: person.ID,
				IsMain:     true,
				Order:      order,
			}
			err = tx.Create(&link).Error
		}
		if err != nil {
			return translateDBError(err, "演职人员 "+person.Name)
		}
	}
	return nil
}

// CastCredit 视频详情中的演职人员
type CastCredit struct {
	models.Person
	Role   *string `json:"role,omitempty"`
	IsMain bool    `json:"is_main"`
	Order  int     `gorm:"column:sort_order" json:"order"`
}

// ListCredits 视频的演员和导演，按关联排序
func (s *CastService) ListCredits(ctx context.Context, videoID uint) (actors, directors []CastCredit, err error) {
	actors = []CastCredit{}
	err = s.db.WithContext(ctx).
		Table("actors").
		Select("actors.*, video_actors.role, video_actors.is_main, video_actors.sort_order").
		Joins("JOIN video_actors ON video_actors.actor_id = actors.id").
		Where("video_actors.video_id = ?", videoID).
		Order("video_actors.sort_order ASC, video_actors.id ASC").
		Scan(&actors).Error
	if err != nil {
		return nil, nil, errors.Wrap(err, "查询演员失败")
	}

	directors = []CastCredit{}
	err = s.db.WithContext(ctx).
		Table("directors").
		Select("directors.*, video_directors.is_main, video_directors.sort_order").
		Joins("JOIN video_directors ON video_directors.director_id = directors.id").
		Where("video_directors.video_id = ?", videoID).
		Order("video_directors.sort_order ASC, video_directors.id ASC").
		Scan(&directors).Error
	if err != nil {
		return nil, nil, errors.Wrap(err, "查询导演失败")
	}
	return actors, directors, nil
}
