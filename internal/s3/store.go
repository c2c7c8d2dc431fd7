// Package s3 предоставляет хранилище объектов Amazon S3 для виртуальной файловой системы
package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

// ErrNotFound объект не найден
var ErrNotFound = errors.New("объект S3 не найден")

// Config содержит настройки для S3
type Config struct {
	Region     string
	AccessKey  string
	SecretKey  string
	Endpoint   string
	BucketName string
}

// UploaderAPI часть s3manager.Uploader, которую использует Store
type UploaderAPI interface {
	UploadWithContext(ctx context.Context, input *s3manager.UploadInput, opts ...func(*s3manager.Uploader)) (*s3manager.UploadOutput, error)
}

// ClientAPI часть клиента S3, которую использует Store
type ClientAPI interface {
	GetObjectWithContext(ctx context.Context, input *s3.GetObjectInput, opts ...request.Option) (*s3.GetObjectOutput, error)
	HeadObjectWithContext(ctx context.Context, input *s3.HeadObjectInput, opts ...request.Option) (*s3.HeadObjectOutput, error)
	DeleteObjectWithContext(ctx context.Context, input *s3.DeleteObjectInput, opts ...request.Option) (*s3.DeleteObjectOutput, error)
	CopyObjectWithContext(ctx context.Context, input *s3.CopyObjectInput, opts ...request.Option) (*s3.CopyObjectOutput, error)
	ListObjectsV2PagesWithContext(ctx context.Context, input *s3.ListObjectsV2Input, fn func(*s3.ListObjectsV2Output, bool) bool, opts ...request.Option) error
}

// Store обертка над клиентом и uploader S3
type Store struct {
	uploader UploaderAPI
	client   ClientAPI
	config   *Config
}

// NewStore создает хранилище с AWS сессией
func NewStore(config *Config) (*Store, error) {
	awsConfig := &aws.Config{
		Region: aws.String(config.Region),
		Credentials: credentials.NewStaticCredentials(
			config.AccessKey,
			config.SecretKey,
			"",
		),
	}

	// Совместимые с S3 хранилища требуют path-style адресации
	if config.Endpoint != "" {
		awsConfig.Endpoint = aws.String(config.Endpoint)
		awsConfig.S3ForcePathStyle = aws.Bool(true)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания AWS сессии: %w", err)
	}

	return NewStoreWithClients(config, s3manager.NewUploader(sess), s3.New(sess)), nil
}

// NewStoreWithClients создает хранилище с готовыми клиентами
func NewStoreWithClients(config *Config, uploader UploaderAPI, client ClientAPI) *Store {
	return &Store{uploader: uploader, client: client, config: config}
}

// Bucket bucket по умолчанию
func (st *Store) Bucket() string { return st.config.BucketName }

// Object сведения об объекте
type Object struct {
	Key          string
	Size         int64
	LastModified time.Time
	ContentType  string
}

// Get открывает объект для чтения. Вызывающий закрывает тело
func (st *Store) Get(ctx context.Context, bucket, key string) (io.ReadCloser, *Object, error) {
	out, err := st.client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(st.bucket(bucket)),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, nil, wrapNotFound(fmt.Sprintf("ошибка чтения объекта %s", key), err)
	}

	obj := &Object{
		Key:          key,
		Size:         aws.Int64Value(out.ContentLength),
		LastModified: aws.TimeValue(out.LastModified),
		ContentType:  aws.StringValue(out.ContentType),
	}
	return out.Body, obj, nil
}

// Put загружает объект и возвращает его URL
func (st *Store) Put(ctx context.Context, bucket, key string, body io.Reader) (string, error) {
	b := st.bucket(bucket)
	_, err := st.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket: aws.String(b),
		Key:    aws.String(key),
		Body:   body,
	})
	if err != nil {
		return "", fmt.Errorf("ошибка загрузки: %w", err)
	}

	return st.URL(b, key), nil
}

// URL адрес объекта для совместимого хранилища
func (st *Store) URL(bucket, key string) string {
	return fmt.Sprintf("%s/%s/%s", st.config.Endpoint, st.bucket(bucket), key)
}

// Head возвращает сведения об объекте или ErrNotFound
func (st *Store) Head(ctx context.Context, bucket, key string) (*Object, error) {
	out, err := st.client.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(st.bucket(bucket)),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, wrapNotFound(fmt.Sprintf("ошибка получения сведений об объекте %s", key), err)
	}

	return &Object{
		Key:          key,
		Size:         aws.Int64Value(out.ContentLength),
		LastModified: aws.TimeValue(out.LastModified),
		ContentType:  aws.StringValue(out.ContentType),
	}, nil
}

// Delete удаляет объект
func (st *Store) Delete(ctx context.Context, bucket, key string) error {
	_, err := st.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(st.bucket(bucket)),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("ошибка удаления файла из S3: %w", err)
	}
	return nil
}

// Copy копирует объект внутри хранилища
func (st *Store) Copy(ctx context.Context, srcBucket, srcKey, dstBucket, dstKey string) error {
	source := st.bucket(srcBucket) + "/" + url.PathEscape(srcKey)
	_, err := st.client.CopyObjectWithContext(ctx, &s3.CopyObjectInput{
		Bucket:     aws.String(st.bucket(dstBucket)),
		Key:        aws.String(dstKey),
		CopySource: aws.String(source),
	})
	if err != nil {
		return wrapNotFound(fmt.Sprintf("ошибка копирования %s", srcKey), err)
	}
	return nil
}

// List возвращает подкаталоги и объекты непосредственно под префиксом
func (st *Store) List(ctx context.Context, bucket, prefix string) (dirs []string, objects []Object, err error) {
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	input := &s3.ListObjectsV2Input{
		Bucket:    aws.String(st.bucket(bucket)),
		Prefix:    aws.String(prefix),
		Delimiter: aws.String("/"),
	}
	err = st.client.ListObjectsV2PagesWithContext(ctx, input, func(page *s3.ListObjectsV2Output, _ bool) bool {
		for _, p := range page.CommonPrefixes {
			name := strings.TrimSuffix(strings.TrimPrefix(aws.StringValue(p.Prefix), prefix), "/")
			dirs = append(dirs, name)
		}
		for _, o := range page.Contents {
			name := strings.TrimPrefix(aws.StringValue(o.Key), prefix)
			if name == "" {
				continue
			}
			objects = append(objects, Object{
				Key:          name,
				Size:         aws.Int64Value(o.Size),
				LastModified: aws.TimeValue(o.LastModified),
			})
		}
		return true
	})
	if err != nil {
		return nil, nil, fmt.Errorf("ошибка получения списка объектов %s: %w", prefix, err)
	}
	return dirs, objects, nil
}

func (st *Store) bucket(bucket string) string {
	if bucket == "" {
		return st.config.BucketName
	}
	return bucket
}

func wrapNotFound(msg string, err error) error {
	var aerr awserr.Error
	if errors.As(err, &aerr) {
		switch aerr.Code() {
		case s3.ErrCodeNoSuchKey, s3.ErrCodeNoSuchBucket, "NotFound":
			return fmt.Errorf("%s: %w", msg, ErrNotFound)
		}
	}
	return fmt.Errorf("%s: %w", msg, err)
}
