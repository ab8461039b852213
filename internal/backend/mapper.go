package backend

import (
	"github.com/mmcdole/reel/internal/domain"
)

// MapDirectory converts a directory listing to the domain directory and its items
func MapDirectory(d DirectoryDetail) (*domain.Directory, []*domain.Item) {
	dir := &domain.Directory{
		ID:   string(d.ID),
		Path: d.Path,
	}
	if d.Parent != nil {
		dir.ParentID = string(d.Parent.ID)
	}
	return dir, MapImages(d.Images)
}

// MapImages converts image entries to domain items, preserving order
func MapImages(images []Image) []*domain.Item {
	items := make([]*domain.Item, 0, len(images))
	for _, img := range images {
		items = append(items, mapImage(img))
	}
	return items
}

func mapImage(img Image) *domain.Item {
	item := &domain.Item{
		ID:       string(img.ID),
		Name:     img.Name,
		MimeType: img.MimeType,
	}
	if img.Rating != nil {
		item.Rating = *img.Rating
	}
	if img.PickLabel != nil {
		item.PickLabel = domain.PickLabel(*img.PickLabel)
	}
	if img.ColorLabel != nil {
		item.ColorLabel = domain.ColorLabel(*img.ColorLabel)
	}

	for _, t := range img.Tags {
		item.Tags = append(item.Tags, domain.Tag{
			ID:       string(t.ID),
			Name:     t.Name,
			FullName: t.FullName,
		})
	}
	for _, a := range img.Attachments {
		item.Attachments = append(item.Attachments, domain.Attachment{
			ID:   string(a.ID),
			Name: a.Name,
			Type: a.AttachmentType,
		})
	}
	return item
}

// MapTagTree converts the served tag tree to catalog nodes
func MapTagTree(nodes []TagTreeNode) []domain.TagNode {
	if len(nodes) == 0 {
		return nil
	}
	out := make([]domain.TagNode, len(nodes))
	for i, n := range nodes {
		out[i] = domain.TagNode{
			ID:      string(n.ID),
			Name:    n.Name,
			Subtags: MapTagTree(n.Subtags),
		}
	}
	return out
}
