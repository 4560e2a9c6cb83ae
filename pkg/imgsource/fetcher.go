package imgsource

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/guldfisk/scryimg/pkg/awaiter"
	"github.com/guldfisk/scryimg/pkg/diskcache"
	"github.com/guldfisk/scryimg/pkg/imgerr"
	"github.com/guldfisk/scryimg/pkg/images"
	"github.com/guldfisk/scryimg/pkg/imgreq"
	"github.com/guldfisk/scryimg/pkg/imgsize"
)

// remoteTimeout bounds every request made to the remote catalog, both
// the card lookup and the subsequent image download.
const remoteTimeout = 30 * time.Second

// Fetcher resolves a printing's image from the remote catalog,
// single-flighting concurrent requests for the same printing/face/size
// and populating the disk cache on success.
type Fetcher struct {
	// Client is the HTTP client used for both the card lookup and the
	// image download. If nil, http.DefaultClient is used.
	Client *http.Client

	// CardBaseURL overrides the remote catalog's card-lookup endpoint,
	// in place of Request.RemoteCardURI. Tests point this at an
	// httptest server; production leaves it unset.
	CardBaseURL string

	awaiter awaiter.TaskAwaiter[image.Image]
}

// cardURL returns the card-lookup URL for req, honoring CardBaseURL
// when set.
func (f *Fetcher) cardURL(req imgreq.Request) string {
	if f.CardBaseURL == "" {
		return req.RemoteCardURI()
	}
	return f.CardBaseURL + "/" + req.Subject.Printing.ID
}

func (f *Fetcher) httpClient() *http.Client {
	if f.Client != nil {
		return f.Client
	}
	return http.DefaultClient
}

// GetImage implements Source.
func (f *Fetcher) GetImage(ctx context.Context, req imgreq.Request) (image.Image, error) {
	path := req.Path()
	if req.AllowDiskCached {
		if img, err := diskcache.Load(path); err == nil {
			return img, nil
		}
		if req.PictureName != "" {
			return nil, imgerr.NoLocalImageErr()
		}
		if !req.HasImage() {
			return nil, imgerr.MissingDefaultErr()
		}
	}

	return f.awaiter.Do(req.Key(), func() (image.Image, error) {
		return f.fetch(ctx, req, path)
	})
}

func (f *Fetcher) fetch(ctx context.Context, req imgreq.Request, path string) (image.Image, error) {
	pngURL, err := f.resolveFaceURL(ctx, req)
	if err != nil {
		return nil, err
	}

	img, err := f.downloadPNG(ctx, pngURL)
	if err != nil {
		return nil, err
	}

	w, h := imgsize.Dimensions(imgsize.Original, false)
	if img.Bounds().Dx() != w || img.Bounds().Dy() != h {
		img = images.ResizeLanczos(img, w, h)
	}

	if req.Save {
		if err := diskcache.Save(path, img); err != nil {
			return nil, err
		}
	}
	return img, nil
}

// scryfallCard is the slice of the remote catalog's card object this
// package needs: enough to pick the right face image for every layout
// the domain model can report.
type scryfallCard struct {
	Layout    string `json:"layout"`
	ImageURIs struct {
		PNG string `json:"png"`
	} `json:"image_uris"`
	CardFaces []struct {
		ImageURIs struct {
			PNG string `json:"png"`
		} `json:"image_uris"`
	} `json:"card_faces"`
	AllParts []struct {
		Name string `json:"name"`
		URI  string `json:"uri"`
	} `json:"all_parts"`
}

// resolveFaceURL fetches the printing's card object and returns the
// PNG URL for the requested face, following the MELD back-face
// indirection through all_parts when necessary.
func (f *Fetcher) resolveFaceURL(ctx context.Context, req imgreq.Request) (string, error) {
	card, err := f.getCard(ctx, f.cardURL(req))
	if err != nil {
		return "", err
	}

	if strings.EqualFold(card.Layout, "meld") && req.Back {
		p := req.Subject.Printing
		for _, part := range card.AllParts {
			if p != nil && part.Name == p.BackName {
				back, err := f.getCard(ctx, part.URI)
				if err != nil {
					return "", err
				}
				return back.ImageURIs.PNG, nil
			}
		}
		return "", imgerr.New(imgerr.RemoteStatus, "meld back face not found in all_parts")
	}

	switch strings.ToLower(card.Layout) {
	case "transform", "modal_dfc", "double_faced_token", "art_series":
		idx := 0
		if req.Back {
			idx = len(card.CardFaces) - 1
		}
		if idx < 0 || idx >= len(card.CardFaces) {
			return "", imgerr.New(imgerr.RemoteStatus, "card has no face at requested index")
		}
		return card.CardFaces[idx].ImageURIs.PNG, nil
	default:
		return card.ImageURIs.PNG, nil
	}
}

func (f *Fetcher) getCard(ctx context.Context, url string) (*scryfallCard, error) {
	ctx, cancel := context.WithTimeout(ctx, remoteTimeout)
	defer cancel()

	reqHTTP, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, imgerr.TransportErr(err)
	}
	resp, err := f.httpClient().Do(reqHTTP)
	if err != nil {
		return nil, imgerr.TransportErr(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, imgerr.RemoteStatusErr(resp.Status)
	}

	var card scryfallCard
	if err := json.NewDecoder(resp.Body).Decode(&card); err != nil {
		return nil, imgerr.DecodeErr(url, err)
	}
	return &card, nil
}

func (f *Fetcher) downloadPNG(ctx context.Context, url string) (image.Image, error) {
	ctx, cancel := context.WithTimeout(ctx, remoteTimeout)
	defer cancel()

	reqHTTP, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, imgerr.TransportErr(err)
	}
	resp, err := f.httpClient().Do(reqHTTP)
	if err != nil {
		return nil, imgerr.TransportErr(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, imgerr.RemoteStatusErr(resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, imgerr.TransportErr(err)
	}

	img, _, err := image.Decode(bytes.NewReader(body))
	if err != nil {
		return nil, imgerr.DecodeErr(url, err)
	}
	return img, nil
}
