package grpcserver

import (
	"context"

	"google.golang.org/grpc"

	"recipehub/pkg/models"
)

const serviceName = "recipehub.Catalog"

type SearchRequest struct {
	Query string `json:"q"`
	Type  string `json:"type,omitempty"`
}

type SearchResponse struct {
	Results []models.Recipe `json:"results"`
}

type BrowseRequest struct {
	Type        string `json:"type,omitempty"`
	Diet        string `json:"diet,omitempty"`
	Q           string `json:"q,omitempty"`
	MinCalories *int   `json:"minCalories,omitempty"`
	MaxCalories *int   `json:"maxCalories,omitempty"`
	Sort        string `json:"sort,omitempty"`
	Page        int    `json:"page,omitempty"`
	PageSize    int    `json:"pageSize,omitempty"`
}

type SuggestedRequest struct {
	ExcludeID string `json:"excludeId,omitempty"`
	Limit     int    `json:"limit,omitempty"`
	Type      string `json:"type,omitempty"`
}

type SuggestedResponse struct {
	Results []models.Recipe `json:"results"`
}

type DetailsRequest struct {
	ID   string `json:"id"`
	Type string `json:"type,omitempty"`
}

type DetailsResponse struct {
	Recipe map[string]any `json:"recipe"`
}

type NutritionRequest struct {
	ID string `json:"id"`
}

type NutritionResponse struct {
	Nutrition models.Nutrition `json:"nutrition"`
}

type CuratedRequest struct {
	Type string `json:"type,omitempty"`
}

type CuratedResponse struct {
	Results []models.CuratedItem `json:"results"`
}

type RandomDrinkRequest struct{}

// CatalogServer is the server API of recipehub.Catalog.
type CatalogServer interface {
	Search(context.Context, *SearchRequest) (*SearchResponse, error)
	Browse(context.Context, *BrowseRequest) (*models.BrowsePage, error)
	Suggested(context.Context, *SuggestedRequest) (*SuggestedResponse, error)
	Details(context.Context, *DetailsRequest) (*DetailsResponse, error)
	Nutrition(context.Context, *NutritionRequest) (*NutritionResponse, error)
	Curated(context.Context, *CuratedRequest) (*CuratedResponse, error)
	RandomDrink(context.Context, *RandomDrinkRequest) (*DetailsResponse, error)
}

var CatalogServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*CatalogServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("Search", CatalogServer.Search),
		unary("Browse", CatalogServer.Browse),
		unary("Suggested", CatalogServer.Suggested),
		unary("Details", CatalogServer.Details),
		unary("Nutrition", CatalogServer.Nutrition),
		unary("Curated", CatalogServer.Curated),
		unary("RandomDrink", CatalogServer.RandomDrink),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "recipehub/catalog",
}

func RegisterCatalogServer(s grpc.ServiceRegistrar, srv CatalogServer) {
	s.RegisterService(&CatalogServiceDesc, srv)
}

func unary[Req, Resp any](method string, call func(CatalogServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	fullMethod := "/" + serviceName + "/" + method
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(CatalogServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(CatalogServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// Client calls recipehub.Catalog over an existing connection.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) Search(ctx context.Context, in *SearchRequest, opts ...grpc.CallOption) (*SearchResponse, error) {
	out := new(SearchResponse)
	if err := c.invoke(ctx, "Search", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Browse(ctx context.Context, in *BrowseRequest, opts ...grpc.CallOption) (*models.BrowsePage, error) {
	out := new(models.BrowsePage)
	if err := c.invoke(ctx, "Browse", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Suggested(ctx context.Context, in *SuggestedRequest, opts ...grpc.CallOption) (*SuggestedResponse, error) {
	out := new(SuggestedResponse)
	if err := c.invoke(ctx, "Suggested", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Details(ctx context.Context, in *DetailsRequest, opts ...grpc.CallOption) (*DetailsResponse, error) {
	out := new(DetailsResponse)
	if err := c.invoke(ctx, "Details", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Nutrition(ctx context.Context, in *NutritionRequest, opts ...grpc.CallOption) (*NutritionResponse, error) {
	out := new(NutritionResponse)
	if err := c.invoke(ctx, "Nutrition", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Curated(ctx context.Context, in *CuratedRequest, opts ...grpc.CallOption) (*CuratedResponse, error) {
	out := new(CuratedResponse)
	if err := c.invoke(ctx, "Curated", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) RandomDrink(ctx context.Context, in *RandomDrinkRequest, opts ...grpc.CallOption) (*DetailsResponse, error) {
	out := new(DetailsResponse)
	if err := c.invoke(ctx, "RandomDrink", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) invoke(ctx context.Context, method string, in, out any, opts []grpc.CallOption) error {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	return c.cc.Invoke(ctx, "/"+serviceName+"/"+method, in, out, opts...)
}
