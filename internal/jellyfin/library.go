package jellyfin

import (
	"context"
	"sort"

	jellyfin "github.com/sj14/jellyfin-go/api"
)

const pageSize = 200

// MediaItem is a simplified representation of a Jellyfin item.
type MediaItem struct {
	ID          string
	Name        string
	Type        string // Photo, Video, Folder, etc.
	IndexNumber int
	ImageTags   map[string]string
}

// HasImage reports whether the item carries an image of type t.
func (m MediaItem) HasImage(t ImageType) bool {
	_, ok := m.ImageTags[string(t)]
	return ok
}

// GetChildren returns one page of the direct children of parentID.
func (c *Client) GetChildren(ctx context.Context, parentID string, start, limit int) (_ []MediaItem, total int, err error) {
	defer mon.Task()(&ctx)(&err)

	req := c.api.ItemsAPI.GetItems(ctx).
		UserId(c.userID).
		ParentId(parentID).
		StartIndex(int32(start)).
		Limit(int32(limit)).
		EnableImageTypes([]jellyfin.ImageType{jellyfin.IMAGETYPE_PRIMARY}).
		ImageTypeLimit(1).
		SortBy([]jellyfin.ItemSortBy{jellyfin.ITEMSORTBY_SORT_NAME}).
		SortOrder([]jellyfin.SortOrder{jellyfin.SORTORDER_ASCENDING})

	result, resp, err := req.Execute()
	if err != nil {
		return nil, 0, Error.New("get children: %w (status: %s)", err, respStatus(resp))
	}
	if result.TotalRecordCount != nil {
		total = int(*result.TotalRecordCount)
	}
	return convertItems(result.Items), total, nil
}

// StackItems pages through every child of parentID that has a primary
// image and orders them by index number, then name.
func (c *Client) StackItems(ctx context.Context, parentID string) ([]MediaItem, error) {
	var items []MediaItem
	for start := 0; ; {
		page, total, err := c.GetChildren(ctx, parentID, start, pageSize)
		if err != nil {
			return nil, err
		}
		for _, it := range page {
			if it.HasImage(ImagePrimary) {
				items = append(items, it)
			}
		}
		start += len(page)
		if len(page) == 0 || start >= total {
			break
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].IndexNumber != items[j].IndexNumber {
			return items[i].IndexNumber < items[j].IndexNumber
		}
		return items[i].Name < items[j].Name
	})
	return items, nil
}

// StackURLs returns the image URLs that make up the remote stack under parentID.
func (c *Client) StackURLs(ctx context.Context, parentID string) ([]string, error) {
	items, err := c.StackItems(ctx, parentID)
	if err != nil {
		return nil, err
	}
	urls := make([]string, 0, len(items))
	for _, it := range items {
		urls = append(urls, c.GetStackImageURL(it.ID))
	}
	return urls, nil
}

func convertItems(items []jellyfin.BaseItemDto) []MediaItem {
	result := make([]MediaItem, 0, len(items))
	for _, item := range items {
		result = append(result, convertBaseItemDto(&item))
	}
	return result
}

func convertBaseItemDto(item *jellyfin.BaseItemDto) MediaItem {
	mi := MediaItem{}
	if item.Id != nil {
		mi.ID = *item.Id
	}
	mi.Name = item.GetName()
	if item.Type != nil {
		mi.Type = string(*item.Type)
	}
	mi.IndexNumber = int(item.GetIndexNumber())

	if len(item.ImageTags) > 0 {
		mi.ImageTags = make(map[string]string)
		for k, v := range item.ImageTags {
			mi.ImageTags[k] = v
		}
	}
	return mi
}
