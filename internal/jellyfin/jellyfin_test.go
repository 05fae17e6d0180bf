package jellyfin

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeURL(t *testing.T) {
	require.Equal(t, "https://media.local", normalizeURL(" media.local/ "))
	require.Equal(t, "http://10.0.0.2:8096", normalizeURL("http://10.0.0.2:8096/"))
}

func TestImageAndStreamURLs(t *testing.T) {
	c := NewClient("media.local")
	c.SetToken("tok", "user-1")
	require.Equal(t, "tok", c.Token())
	require.Equal(t, "user-1", c.UserID())

	u, err := url.Parse(c.GetStackImageURL("item 1"))
	require.NoError(t, err)
	require.Equal(t, "/Items/item 1/Images/Primary", u.Path)
	require.Equal(t, "1024", u.Query().Get("maxWidth"))
	require.Equal(t, "90", u.Query().Get("quality"))

	u, err = url.Parse(c.GetStreamURL("vid"))
	require.NoError(t, err)
	require.Equal(t, "https://media.local/Videos/vid/stream", u.Scheme+"://"+u.Host+u.Path)
	require.Equal(t, "tok", u.Query().Get("api_key"))
	require.Equal(t, "true", u.Query().Get("Static"))
}

func TestStackURLs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/Items") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"Items": [
				{"Id": "c", "Name": "slice 3", "IndexNumber": 3, "ImageTags": {"Primary": "t3"}},
				{"Id": "x", "Name": "notes", "ImageTags": {}},
				{"Id": "a", "Name": "slice 1", "IndexNumber": 1, "ImageTags": {"Primary": "t1"}},
				{"Id": "b", "Name": "slice 2", "IndexNumber": 2, "ImageTags": {"Primary": "t2"}}
			],
			"TotalRecordCount": 4,
			"StartIndex": 0
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	c.SetToken("tok", "user-1")

	items, err := c.StackItems(context.Background(), "folder")
	require.NoError(t, err)
	require.Len(t, items, 3)
	require.Equal(t, []string{"a", "b", "c"}, []string{items[0].ID, items[1].ID, items[2].ID})

	urls, err := c.StackURLs(context.Background(), "folder")
	require.NoError(t, err)
	require.Len(t, urls, 3)
	require.True(t, strings.HasPrefix(urls[0], srv.URL+"/Items/a/Images/Primary?"))
}

func TestStackURLsServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.StackURLs(context.Background(), "folder")
	require.Error(t, err)
	require.True(t, Error.Has(err))
}
