package storage

import (
	"crypto/sha1"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// Cloudinary configuration via environment variables:
// CLOUDINARY_CLOUD_NAME, CLOUDINARY_API_KEY, CLOUDINARY_API_SECRET,
// CLOUDINARY_FOLDER (optional)

// ErrUnsupportedAssetType is returned for any MIME type the catalog does not
// store: only images and PDF documents are accepted.
var ErrUnsupportedAssetType = errors.New("unsupported asset type")

// UploadAsset pushes a file to Cloudinary and returns its secure URL.
// image/* goes to image storage, application/pdf to raw storage; anything
// else is rejected before any network call. Package-level variable so tests
// can stub the collaborator out.
var UploadAsset = uploadAsset

// classifyAsset maps a declared MIME type onto a Cloudinary resource type.
func classifyAsset(mimeType string) (string, error) {
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return "image", nil
	case mimeType == "application/pdf":
		return "raw", nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedAssetType, mimeType)
	}
}

// DeleteAsset best-effort removes a previously uploaded file, identified by
// its delivery URL. Callers fire-and-forget it when an asset is replaced.
var DeleteAsset = deleteAsset

func deleteAsset(assetURL string) error {
	resource, publicID, err := parseAssetURL(assetURL)
	if err != nil {
		return err
	}

	cloudName := os.Getenv("CLOUDINARY_CLOUD_NAME")
	apiKey := os.Getenv("CLOUDINARY_API_KEY")
	apiSecret := os.Getenv("CLOUDINARY_API_SECRET")
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return errors.New("missing Cloudinary credentials")
	}

	endpoint := "https://api.cloudinary.com/v1_1/" + cloudName + "/" + resource + "/destroy"

	timestamp := fmt.Sprintf("%d", time.Now().Unix())
	form := url.Values{}
	form.Add("public_id", publicID)
	form.Add("api_key", apiKey)
	form.Add("timestamp", timestamp)
	signatureString := fmt.Sprintf("public_id=%s&timestamp=%s%s", publicID, timestamp, apiSecret)
	form.Add("signature", fmt.Sprintf("%x", sha1.Sum([]byte(signatureString))))

	res, err := http.PostForm(endpoint, form)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("cloudinary destroy failed with status %d", res.StatusCode)
	}
	return nil
}

// parseAssetURL recovers the resource type and public id from a Cloudinary
// delivery URL: /<cloud>/<resource>/upload/<version>/<public_id>.<ext>
func parseAssetURL(assetURL string) (string, string, error) {
	u, err := url.Parse(assetURL)
	if err != nil {
		return "", "", err
	}
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	uploadIdx := -1
	for i, s := range segments {
		if s == "upload" {
			uploadIdx = i
			break
		}
	}
	if uploadIdx < 1 || uploadIdx == len(segments)-1 {
		return "", "", fmt.Errorf("unrecognized asset URL %q", assetURL)
	}
	resource := segments[uploadIdx-1]

	rest := segments[uploadIdx+1:]
	if len(rest) > 1 && strings.HasPrefix(rest[0], "v") {
		if _, err := fmt.Sscanf(rest[0], "v%d", new(int64)); err == nil {
			rest = rest[1:]
		}
	}
	publicID := strings.Join(rest, "/")
	// destroy expects image public ids without the format extension
	if resource == "image" {
		if dot := strings.LastIndex(publicID, "."); dot > 0 {
			publicID = publicID[:dot]
		}
	}
	return resource, publicID, nil
}

func uploadAsset(data []byte, mimeType string, publicID string) (string, error) {
	resource, err := classifyAsset(mimeType)
	if err != nil {
		return "", err
	}

	cloudName := os.Getenv("CLOUDINARY_CLOUD_NAME")
	apiKey := os.Getenv("CLOUDINARY_API_KEY")
	apiSecret := os.Getenv("CLOUDINARY_API_SECRET")
	folder := os.Getenv("CLOUDINARY_FOLDER")

	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return "", errors.New("missing Cloudinary credentials")
	}

	endpoint := "https://api.cloudinary.com/v1_1/" + cloudName + "/" + resource + "/upload"

	finalPublicID := publicID
	if folder != "" {
		finalPublicID = folder + "/" + publicID
	}

	form := url.Values{}
	form.Add("file", "data:"+mimeType+";base64,"+base64.StdEncoding.EncodeToString(data))
	form.Add("api_key", apiKey)
	form.Add("public_id", finalPublicID)

	// Signed upload: SHA1 over the sorted params plus the API secret.
	timestamp := fmt.Sprintf("%d", time.Now().Unix())
	form.Add("timestamp", timestamp)
	signatureString := fmt.Sprintf("public_id=%s&timestamp=%s%s", finalPublicID, timestamp, apiSecret)
	form.Add("signature", fmt.Sprintf("%x", sha1.Sum([]byte(signatureString))))

	req, err := http.NewRequest("POST", endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", err
	}

	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("cloudinary upload failed with status %d: %s", res.StatusCode, string(body))
	}

	var cloudRes struct {
		SecureURL string `json:"secure_url"`
		URL       string `json:"url"`
		Error     struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &cloudRes); err != nil {
		return "", err
	}
	if cloudRes.Error.Message != "" {
		return "", errors.New("cloudinary: " + cloudRes.Error.Message)
	}

	urlOut := cloudRes.SecureURL
	if urlOut == "" {
		urlOut = cloudRes.URL
	}
	if urlOut == "" {
		return "", errors.New("cloudinary returned no URL")
	}
	return urlOut, nil
}
