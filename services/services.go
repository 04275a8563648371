package services

import (
	"gorm.io/gorm"
)

// Deps 外部协作组件，未配置的使用默认实现
type Deps struct {
	Storage      Storage
	Describer    Describer
	MenuCache    MenuCache
	Limits       PublishLimits
	SystemUserID uint
}

// Services 所有业务服务
type Services struct {
	Taxonomy     *TaxonomyService
	Media        *MediaService
	Cast         *CastService
	Videos       *VideoService
	Comments     *CommentService
	Interactions *InteractionService
	Listing      *ListingService
	Channels     *ChannelService
	Music        *MusicService
	Publish      *PublishService
	Sources      *SourceService
	Import       *ImportService
}

// New 组装服务
func New(db *gorm.DB, deps Deps) *Services {
	if deps.Describer == nil {
		deps.Describer = NopDescriber{}
	}
	if deps.Storage == nil {
		deps.Storage = NewLocalStorage("media", "/media/")
	}
	if deps.Limits == (PublishLimits{}) {
		deps.Limits = DefaultPublishLimits
	}
	if deps.SystemUserID == 0 {
		deps.SystemUserID = 1
	}

	s := &Services{}
	s.Taxonomy = NewTaxonomyService(db, deps.MenuCache)
	s.Media = NewMediaService(db)
	s.Cast = NewCastService(db, deps.Describer)
	s.Videos = NewVideoService(db, s.Cast, s.Media, deps.SystemUserID)
	s.Comments = NewCommentService(db)
	s.Interactions = NewInteractionService(db)
	s.Listing = NewListingService(db, s.Interactions)
	s.Channels = NewChannelService(db, s.Taxonomy, s.Listing)
	s.Music = NewMusicService(db)
	s.Publish = NewPublishService(db, deps.Storage, s.Videos, s.Cast, deps.Limits)
	s.Sources = NewSourceService(db)
	s.Import = NewImportService(db, s.Sources, s.Videos, s.Cast, NewCollector())
	return s
}
